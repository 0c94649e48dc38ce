package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Insertion order is preserved by the
// position sequence column.
type PGRepo struct {
	DB *sql.DB
}

const resultColumns = `
id, candidate_name, match_score, education_match, experience_match, skills_match,
experience_level, top_skills, missing_skills, key_strengths, development_areas,
recommended_questions, insights, status, rejected, rejection_reason, favorite,
detailed_notes, review_date`

// List returns the whole collection in insertion order.
func (r *PGRepo) List(ctx context.Context) ([]AnalysisResult, error) {
	query := `SELECT` + resultColumns + ` FROM analysis_results ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []AnalysisResult{}
	}
	return out, nil
}

// GetByID returns a result by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (AnalysisResult, error) {
	query := `SELECT` + resultColumns + ` FROM analysis_results WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AnalysisResult{}, ErrNotFound
	}
	if err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// ExistsByName reports whether any stored result carries the candidate name.
func (r *PGRepo) ExistsByName(ctx context.Context, candidateName string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM analysis_results WHERE candidate_name = $1)`,
		candidateName,
	).Scan(&exists)
	return exists, err
}

// Append inserts results at the end of the collection.
func (r *PGRepo) Append(ctx context.Context, results []AnalysisResult) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, result := range results {
		if err := insertResult(ctx, tx, result); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update replaces the stored result with the same ID.
func (r *PGRepo) Update(ctx context.Context, result AnalysisResult) error {
	const query = `
UPDATE analysis_results SET
	candidate_name = $2, match_score = $3, education_match = $4, experience_match = $5,
	skills_match = $6, experience_level = $7, top_skills = $8, missing_skills = $9,
	key_strengths = $10, development_areas = $11, recommended_questions = $12,
	insights = $13, status = $14, rejected = $15, rejection_reason = $16,
	favorite = $17, detailed_notes = $18, review_date = $19
WHERE id = $1`
	args, err := resultArgs(result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace swaps the whole collection for the given one, preserving order.
func (r *PGRepo) Replace(ctx context.Context, results []AnalysisResult) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_results`); err != nil {
		return err
	}
	for _, result := range results {
		if err := insertResult(ctx, tx, result); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Clear empties the collection.
func (r *PGRepo) Clear(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM analysis_results`)
	return err
}

func insertResult(ctx context.Context, tx *sql.Tx, result AnalysisResult) error {
	const query = `
INSERT INTO analysis_results (
	id, candidate_name, match_score, education_match, experience_match, skills_match,
	experience_level, top_skills, missing_skills, key_strengths, development_areas,
	recommended_questions, insights, status, rejected, rejection_reason, favorite,
	detailed_notes, review_date
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	args, err := resultArgs(result)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func resultArgs(result AnalysisResult) ([]any, error) {
	topSkills, err := marshalList(result.TopSkills)
	if err != nil {
		return nil, err
	}
	missingSkills, err := marshalList(result.MissingSkills)
	if err != nil {
		return nil, err
	}
	keyStrengths, err := marshalList(result.KeyStrengths)
	if err != nil {
		return nil, err
	}
	developmentAreas, err := marshalList(result.DevelopmentAreas)
	if err != nil {
		return nil, err
	}
	recommendedQuestions, err := marshalList(result.RecommendedQuestions)
	if err != nil {
		return nil, err
	}

	return []any{
		result.ID,
		result.CandidateName,
		result.MatchScore,
		nullableInt(result.EducationMatch),
		nullableInt(result.ExperienceMatch),
		nullableInt(result.SkillsMatch),
		result.ExperienceLevel,
		topSkills,
		missingSkills,
		keyStrengths,
		developmentAreas,
		recommendedQuestions,
		result.Insights,
		result.Status,
		result.Rejected,
		result.RejectionReason,
		result.Favorite,
		result.DetailedNotes,
		result.ReviewDate,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (AnalysisResult, error) {
	var result AnalysisResult
	var educationMatch, experienceMatch, skillsMatch sql.NullInt64
	var topSkills, missingSkills, keyStrengths, developmentAreas, recommendedQuestions []byte

	err := row.Scan(
		&result.ID,
		&result.CandidateName,
		&result.MatchScore,
		&educationMatch,
		&experienceMatch,
		&skillsMatch,
		&result.ExperienceLevel,
		&topSkills,
		&missingSkills,
		&keyStrengths,
		&developmentAreas,
		&recommendedQuestions,
		&result.Insights,
		&result.Status,
		&result.Rejected,
		&result.RejectionReason,
		&result.Favorite,
		&result.DetailedNotes,
		&result.ReviewDate,
	)
	if err != nil {
		return AnalysisResult{}, err
	}

	result.EducationMatch = intPtr(educationMatch)
	result.ExperienceMatch = intPtr(experienceMatch)
	result.SkillsMatch = intPtr(skillsMatch)

	if result.TopSkills, err = unmarshalList(topSkills); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode top_skills: %w", err)
	}
	if result.MissingSkills, err = unmarshalList(missingSkills); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode missing_skills: %w", err)
	}
	if result.KeyStrengths, err = unmarshalList(keyStrengths); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode key_strengths: %w", err)
	}
	if result.DevelopmentAreas, err = unmarshalList(developmentAreas); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode development_areas: %w", err)
	}
	if result.RecommendedQuestions, err = unmarshalList(recommendedQuestions); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode recommended_questions: %w", err)
	}

	result.Normalize()
	return result, nil
}

func marshalList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func unmarshalList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	val := int(v.Int64)
	return &val
}
