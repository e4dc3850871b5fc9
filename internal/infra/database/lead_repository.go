package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, company, email, phone, address, project_requirement_title,
	project_requirement_details, stage, value, assigned_to, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, input entity.LeadInput, ownerID string) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO leads (id, name, company, email, phone, address, project_requirement_title,
			project_requirement_details, stage, value, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`

	_, err := r.DB.ExecContext(ctx, query,
		id,
		input.Name,
		input.Company,
		input.Email,
		input.Phone,
		input.Address,
		input.ProjectRequirementTitle,
		input.ProjectRequirementDetails,
		entity.StageNew,
		input.Value,
		ownerID,
	)
	if err != nil {
		return "", storeErr("create lead", err)
	}
	return id, nil
}

func (r *LeadRepository) Get(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		return nil, storeErr("get lead", err)
	}

	notes, err := r.loadNotes(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	lead.Notes = notes[id]
	if lead.Notes == nil {
		lead.Notes = []entity.Note{}
	}
	return lead, nil
}

func (r *LeadRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	return r.list(ctx, `SELECT `+leadColumns+` FROM leads WHERE assigned_to = $1 ORDER BY created_at DESC, id`, ownerID)
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	return r.list(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id`)
}

func (r *LeadRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list leads", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	ids := []string{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, storeErr("scan lead", err)
		}
		leads = append(leads, lead)
		ids = append(ids, lead.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list leads", err)
	}
	if len(leads) == 0 {
		return leads, nil
	}

	notes, err := r.loadNotes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, lead := range leads {
		lead.Notes = notes[lead.ID]
		if lead.Notes == nil {
			lead.Notes = []entity.Note{}
		}
	}
	return leads, nil
}

// loadNotes fetches the notes of several leads in one round trip.
func (r *LeadRepository) loadNotes(ctx context.Context, leadIDs []string) (map[string][]entity.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT lead_id, id, content, created_by, created_at
		FROM lead_notes
		WHERE lead_id = ANY($1)
		ORDER BY lead_id, seq
	`, pq.Array(leadIDs))
	if err != nil {
		return nil, storeErr("load notes", err)
	}
	defer rows.Close()

	byLead := make(map[string][]entity.Note, len(leadIDs))
	for rows.Next() {
		var leadID string
		var n entity.Note
		if err := rows.Scan(&leadID, &n.ID, &n.Content, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, storeErr("scan note", err)
		}
		byLead[leadID] = append(byLead[leadID], n)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("load notes", err)
	}
	return byLead, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) error {
	query, args := buildLeadUpdate(id, patch)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return storeErr("update lead", err)
	}
	return expectOne(res, "update lead")
}

// buildLeadUpdate sets only the fields present in the patch; updated_at is
// always bumped and the id is the last placeholder.
func buildLeadUpdate(id string, patch entity.LeadPatch) (string, []any) {
	sets := []string{}
	args := []any{}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Company != nil {
		add("company", *patch.Company)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.ProjectRequirementTitle != nil {
		add("project_requirement_title", *patch.ProjectRequirementTitle)
	}
	if patch.ProjectRequirementDetails != nil {
		add("project_requirement_details", *patch.ProjectRequirementDetails)
	}
	if patch.Stage != nil {
		add("stage", *patch.Stage)
	}
	if patch.Value != nil {
		add("value", *patch.Value)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	return fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)), args
}

// AppendNote inserts the note and bumps the lead's updated_at in one transaction.
func (r *LeadRepository) AppendNote(ctx context.Context, id string, note entity.Note) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("append note", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE leads SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return storeErr("append note", err)
	}
	if err := expectOne(res, "append note"); err != nil {
		return err
	}

	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO lead_notes (id, lead_id, content, created_by)
		VALUES ($1, $2, $3, $4)
	`, note.ID, id, note.Content, note.CreatedBy)
	if err != nil {
		return storeErr("append note", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("append note", err)
	}
	return nil
}

// Delete removes the lead; its notes go with it through ON DELETE CASCADE.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete lead", err)
	}
	return expectOne(res, "delete lead")
}

func (r *LeadRepository) CountByStage(ctx context.Context) (map[entity.Stage]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT stage, COUNT(*) FROM leads GROUP BY stage`)
	if err != nil {
		return nil, storeErr("count leads", err)
	}
	defer rows.Close()

	counts := make(map[entity.Stage]int, len(entity.Stages()))
	for _, s := range entity.Stages() {
		counts[s] = 0
	}
	for rows.Next() {
		var stage entity.Stage
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, storeErr("scan stage count", err)
		}
		counts[stage] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("count leads", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Company,
		&l.Email,
		&l.Phone,
		&l.Address,
		&l.ProjectRequirementTitle,
		&l.ProjectRequirementDetails,
		&l.Stage,
		&l.Value,
		&l.AssignedTo,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}
