package db

import (
	"context"
	"database/sql"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// GetCourseIndex returns the cached course -> detail-url mapping for
// a day, or an empty map when that day hasn't been indexed.
func (q *Queries) GetCourseIndex(ctx context.Context, day string) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT course, url FROM course_index WHERE day = ?`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := map[string]string{}
	for rows.Next() {
		var course, url string
		err = rows.Scan(&course, &url)
		if err != nil {
			return nil, err
		}
		index[course] = url
	}
	return index, rows.Err()
}

func (q *Queries) SaveCourseIndex(ctx context.Context, day string, index map[string]string) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM course_index WHERE day = ?`, day)
	if err != nil {
		return err
	}
	for course, url := range index {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO course_index (day, course, url) VALUES (?, ?, ?)`,
			day, course, url,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
