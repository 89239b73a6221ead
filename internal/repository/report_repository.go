package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// ReportRepository управляет метаданными отчётов в базе данных
type ReportRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewReportRepository(pool *pgxpool.Pool, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create сохраняет метаданные отчёта
func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (name, type, period, format, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx,
		query,
		report.Name,
		report.Type,
		report.Period,
		report.Format,
		report.CreatedBy,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

// GetByCreator получает отчёты, созданные пользователем
func (r *ReportRepository) GetByCreator(ctx context.Context, userID int64) ([]*model.Report, error) {
	query := `
		SELECT id, name, type, period, format, created_by, created_at
		FROM reports
		WHERE created_by = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get reports by creator: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		report := &model.Report{}
		err := rows.Scan(
			&report.ID,
			&report.Name,
			&report.Type,
			&report.Period,
			&report.Format,
			&report.CreatedBy,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// Delete удаляет метаданные отчёта
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reports WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	return nil
}
