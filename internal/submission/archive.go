package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const insertApplication = `
INSERT INTO applications (
	id, user_id, username, language, vacancy, vacancy_key, name, contact,
	experience, region, city_or_zip, driver, submitted_at
) VALUES (
	:id, :user_id, :username, :language, :vacancy, :vacancy_key, :name, :contact,
	:experience, :region, :city_or_zip, :driver, :submitted_at
)`

type applicationRow struct {
	ID          string    `db:"id"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	Language    string    `db:"language"`
	Vacancy     string    `db:"vacancy"`
	VacancyKey  string    `db:"vacancy_key"`
	Name        string    `db:"name"`
	Contact     string    `db:"contact"`
	Experience  string    `db:"experience"`
	Region      string    `db:"region"`
	CityOrZip   string    `db:"city_or_zip"`
	Driver      string    `db:"driver"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func toRow(app Application) applicationRow {
	a := app.Answers
	return applicationRow{
		ID:          app.ID.String(),
		UserID:      app.UserID,
		Username:    app.Username,
		Language:    app.Language.Code(),
		Vacancy:     a.Vacancy,
		VacancyKey:  a.VacancyKey,
		Name:        a.Name,
		Contact:     a.Contact,
		Experience:  a.Experience,
		Region:      a.Region,
		CityOrZip:   a.CityOrZip,
		Driver:      a.Driver,
		SubmittedAt: app.SubmittedAt,
	}
}

// ArchiveSink stores every application in Postgres.
type ArchiveSink struct {
	db *sqlx.DB
}

// NewArchiveSink returns a sink writing to db.
func NewArchiveSink(db *sqlx.DB) *ArchiveSink {
	return &ArchiveSink{db: db}
}

func (s *ArchiveSink) Name() string { return "archive" }

func (s *ArchiveSink) Deliver(ctx context.Context, app Application) error {
	if _, err := s.db.NamedExecContext(ctx, insertApplication, toRow(app)); err != nil {
		return fmt.Errorf("submission: archive insert: %w", err)
	}
	return nil
}
