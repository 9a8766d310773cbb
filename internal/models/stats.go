package models

// StatsOverview summarizes the current user base.
type StatsOverview struct {
	Total             int `json:"total"`
	Activos           int `json:"activos"`
	Inactivos         int `json:"inactivos"`
	RegistradosHoy    int `json:"registrados_hoy"`
	RegistradosSemana int `json:"registrados_semana"`
	RegistradosMes    int `json:"registrados_mes"`
}

// DailyBucket counts registrations for one calendar date. Dates with no
// registrations are never emitted.
type DailyBucket struct {
	Fecha string `json:"fecha"` // YYYY-MM-DD
	Total int    `json:"total"`
}

// WeeklyBucket counts registrations for one ISO week (Monday start).
type WeeklyBucket struct {
	Anio   int    `json:"anio"`
	Semana int    `json:"semana"`
	Total  int    `json:"total"`
	Desde  string `json:"desde"` // earliest registration date in the bucket
	Hasta  string `json:"hasta"` // latest registration date in the bucket
}

// MonthlyBucket counts registrations for one calendar month.
type MonthlyBucket struct {
	Anio   int    `json:"anio"`
	Mes    int    `json:"mes"`
	Nombre string `json:"nombre"`
	Total  int    `json:"total"`
}
