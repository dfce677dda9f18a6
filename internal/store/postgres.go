package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const studentColumns = `id, section_id, name, coding, design, writing, presenting, group_id, created_at`

const groupColumns = `id, section_id, position, name, created_at`

// --- Sections ---

func (s *PostgresStore) CreateSection(ctx context.Context, section *Section) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO sections (teacher_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		section.TeacherID, section.Name,
	).Scan(&section.ID, &section.CreatedAt)
}

func (s *PostgresStore) GetSection(ctx context.Context, id uuid.UUID) (*Section, error) {
	sec := &Section{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, teacher_id, name, created_at
		FROM sections WHERE id = $1`, id,
	).Scan(&sec.ID, &sec.TeacherID, &sec.Name, &sec.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *PostgresStore) ListSections(ctx context.Context, teacherID string) ([]*Section, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, teacher_id, name, created_at
		FROM sections WHERE teacher_id = $1
		ORDER BY created_at ASC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*Section
	for rows.Next() {
		sec := &Section{}
		if err := rows.Scan(&sec.ID, &sec.TeacherID, &sec.Name, &sec.CreatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func (s *PostgresStore) DeleteSection(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Students ---

func (s *PostgresStore) CreateStudent(ctx context.Context, student *Student) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO students (section_id, name, coding, design, writing, presenting)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		student.SectionID, student.Name,
		student.Coding, student.Design, student.Writing, student.Presenting,
	).Scan(&student.ID, &student.CreatedAt)
}

func (s *PostgresStore) GetStudent(ctx context.Context, id int64) (*Student, error) {
	st, err := scanStudent(s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *PostgresStore) ListStudents(ctx context.Context, sectionID uuid.UUID) ([]*Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students WHERE section_id = $1
		ORDER BY id ASC`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (s *PostgresStore) MoveStudent(ctx context.Context, studentID int64, groupID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE students SET group_id = $2
		WHERE id = $1
		  AND section_id = (SELECT section_id FROM student_groups WHERE id = $2)`,
		studentID, groupID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteStudents(ctx context.Context, sectionID uuid.UUID, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM students WHERE section_id = $1 AND id = ANY($2)`,
		sectionID, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) ClearSection(ctx context.Context, sectionID uuid.UUID) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM students WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("delete students: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM student_groups WHERE section_id = $1`, sectionID); err != nil {
		return fmt.Errorf("delete groups: %w", err)
	}
	return tx.Commit(ctx)
}

// --- Groups ---

func (s *PostgresStore) GetGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	g, err := scanGroup(s.pool.QueryRow(ctx, `
		SELECT `+groupColumns+`
		FROM student_groups WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *PostgresStore) ListGroups(ctx context.Context, sectionID uuid.UUID) ([]*Group, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+groupColumns+`
		FROM student_groups WHERE section_id = $1
		ORDER BY position ASC`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) CountGroups(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_groups WHERE section_id = $1`, sectionID).Scan(&n)
	return n, err
}

// ReplaceGroups drops the section's groups and writes plan in one
// transaction. The section row is locked for the duration, so concurrent
// regenerations from separate processes are applied one after another.
func (s *PostgresStore) ReplaceGroups(ctx context.Context, sectionID uuid.UUID, plan GroupPlan) ([]*Group, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM sections WHERE id = $1 FOR UPDATE`, sectionID).Scan(&locked)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock section: %w", err)
	}

	// Members fall back to NULL through ON DELETE SET NULL.
	if _, err := tx.Exec(ctx, `DELETE FROM student_groups WHERE section_id = $1`, sectionID); err != nil {
		return nil, fmt.Errorf("delete groups: %w", err)
	}

	groups := make([]*Group, 0, len(plan.Groups))
	for pos, pg := range plan.Groups {
		g := &Group{SectionID: sectionID, Position: pos, Name: pg.Name}
		if err := tx.QueryRow(ctx, `
			INSERT INTO student_groups (section_id, position, name)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			sectionID, pos, pg.Name,
		).Scan(&g.ID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert group %d: %w", pos, err)
		}

		if len(pg.StudentIDs) > 0 {
			if _, err := tx.Exec(ctx, `
				UPDATE students SET group_id = $1
				WHERE section_id = $2 AND id = ANY($3)`,
				g.ID, sectionID, pg.StudentIDs,
			); err != nil {
				return nil, fmt.Errorf("assign group %d: %w", pos, err)
			}
		}
		groups = append(groups, g)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return groups, nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sections),
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM student_groups),
			(SELECT COUNT(*) FROM students WHERE group_id IS NULL)`,
	).Scan(&stats.Sections, &stats.Students, &stats.Groups, &stats.Unassigned)
	return stats, err
}

func scanStudent(row pgx.Row) (*Student, error) {
	st := &Student{}
	err := row.Scan(
		&st.ID, &st.SectionID, &st.Name,
		&st.Coding, &st.Design, &st.Writing, &st.Presenting,
		&st.GroupID, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func scanGroup(row pgx.Row) (*Group, error) {
	g := &Group{}
	if err := row.Scan(&g.ID, &g.SectionID, &g.Position, &g.Name, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}
