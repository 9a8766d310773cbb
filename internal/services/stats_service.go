package services

import (
	"database/sql"
	"sort"
	"time"

	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/models"
)

// StatsServiceProvider defines the interface for registration statistics.
type StatsServiceProvider interface {
	Overview() (models.StatsOverview, error)
	Daily(days int) ([]models.DailyBucket, error)
	Weekly(weeks int) ([]models.WeeklyBucket, error)
	Monthly(months int) ([]models.MonthlyBucket, error)
}

// StatsService computes count aggregates over user registration dates.
// Weeks are ISO-8601: Monday start, week numbering per time.ISOWeek.
// Buckets with no registrations are never emitted.
type StatsService struct {
	db  *sql.DB
	now func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

type userRow struct {
	createdAt time.Time
	activo    bool
}

func (s *StatsService) load() ([]userRow, error) {
	rows, err := s.db.Query("SELECT created_at, activo FROM usuarios")
	if err != nil {
		return nil, errs.Internal(err)
	}
	defer rows.Close()

	var out []userRow
	for rows.Next() {
		var r userRow
		if err := rows.Scan(&r.createdAt, &r.activo); err != nil {
			return nil, errs.Internal(err)
		}
		r.createdAt = r.createdAt.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err)
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfISOWeek returns the Monday 00:00 of t's week.
func startOfISOWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	return day.AddDate(0, 0, -offset)
}

// Overview summarizes the user base: totals, active/inactive split, and
// registrations today, this ISO week, and this calendar month.
func (s *StatsService) Overview() (models.StatsOverview, error) {
	users, err := s.load()
	if err != nil {
		return models.StatsOverview{}, err
	}

	now := s.now().UTC()
	today := startOfDay(now)
	weekStart := startOfISOWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var o models.StatsOverview
	for _, u := range users {
		o.Total++
		if u.activo {
			o.Activos++
		}
		created := u.createdAt
		if !created.Before(today) && created.Before(today.AddDate(0, 0, 1)) {
			o.RegistradosHoy++
		}
		if !created.Before(weekStart) && created.Before(weekEnd) {
			o.RegistradosSemana++
		}
		if created.Year() == now.Year() && created.Month() == now.Month() {
			o.RegistradosMes++
		}
	}
	o.Inactivos = o.Total - o.Activos
	return o, nil
}

// Daily groups registrations of the last days days by calendar date,
// newest first.
func (s *StatsService) Daily(days int) ([]models.DailyBucket, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().AddDate(0, 0, -days)
	counts := map[string]int{}
	for _, u := range users {
		if u.createdAt.Before(cutoff) {
			continue
		}
		counts[u.createdAt.Format("2006-01-02")]++
	}

	buckets := make([]models.DailyBucket, 0, len(counts))
	for fecha, total := range counts {
		buckets = append(buckets, models.DailyBucket{Fecha: fecha, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Fecha > buckets[j].Fecha })
	return buckets, nil
}

// Weekly groups registrations of the last weeks ISO weeks by (ISO year,
// ISO week), newest first, with the first and last registration date seen
// in each week.
func (s *StatsService) Weekly(weeks int) ([]models.WeeklyBucket, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}

	type weekKey struct{ year, week int }
	cutoff := s.now().UTC().AddDate(0, 0, -7*weeks)
	buckets := map[weekKey]*models.WeeklyBucket{}
	for _, u := range users {
		if u.createdAt.Before(cutoff) {
			continue
		}
		year, week := u.createdAt.ISOWeek()
		fecha := u.createdAt.Format("2006-01-02")
		b, ok := buckets[weekKey{year, week}]
		if !ok {
			buckets[weekKey{year, week}] = &models.WeeklyBucket{
				Anio: year, Semana: week, Total: 1, Desde: fecha, Hasta: fecha,
			}
			continue
		}
		b.Total++
		if fecha < b.Desde {
			b.Desde = fecha
		}
		if fecha > b.Hasta {
			b.Hasta = fecha
		}
	}

	out := make([]models.WeeklyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Anio != out[j].Anio {
			return out[i].Anio > out[j].Anio
		}
		return out[i].Semana > out[j].Semana
	})
	return out, nil
}

// Monthly groups registrations of the last months months by (year, month),
// newest first.
func (s *StatsService) Monthly(months int) ([]models.MonthlyBucket, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	cutoff := s.now().UTC().AddDate(0, -months, 0)
	counts := map[monthKey]int{}
	for _, u := range users {
		if u.createdAt.Before(cutoff) {
			continue
		}
		counts[monthKey{u.createdAt.Year(), u.createdAt.Month()}]++
	}

	out := make([]models.MonthlyBucket, 0, len(counts))
	for k, total := range counts {
		out = append(out, models.MonthlyBucket{
			Anio:   k.year,
			Mes:    int(k.month),
			Nombre: k.month.String(),
			Total:  total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Anio != out[j].Anio {
			return out[i].Anio > out[j].Anio
		}
		return out[i].Mes > out[j].Mes
	})
	return out, nil
}
