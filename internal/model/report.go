package model

import "time"

// Report метаданные сформированного отчёта по посещаемости
type Report struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Period    string    `json:"period"`
	Format    string    `json:"format"` // "csv" или "xlsx"
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
