package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type leadDocument struct {
	ID                        string         `bson:"_id"`
	Name                      string         `bson:"name"`
	Company                   string         `bson:"company"`
	Email                     string         `bson:"email"`
	Phone                     string         `bson:"phone"`
	Address                   string         `bson:"address"`
	ProjectRequirementTitle   string         `bson:"project_requirement_title"`
	ProjectRequirementDetails string         `bson:"project_requirement_details"`
	Stage                     string         `bson:"stage"`
	Value                     float64        `bson:"value"`
	AssignedTo                string         `bson:"assigned_to"`
	CreatedAt                 time.Time      `bson:"created_at"`
	UpdatedAt                 time.Time      `bson:"updated_at"`
	Notes                     []noteDocument `bson:"notes"`
}

type noteDocument struct {
	ID        string    `bson:"id"`
	Content   string    `bson:"content"`
	CreatedBy string    `bson:"created_by"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d leadDocument) toEntity() (*entity.Lead, error) {
	stage, err := entity.ParseStage(d.Stage)
	if err != nil {
		return nil, fmt.Errorf("lead %s: %w", d.ID, err)
	}
	notes := make([]entity.Note, 0, len(d.Notes))
	for _, n := range d.Notes {
		notes = append(notes, entity.Note{
			ID:        n.ID,
			Content:   n.Content,
			CreatedBy: n.CreatedBy,
			CreatedAt: n.CreatedAt.UTC(),
		})
	}
	return &entity.Lead{
		ID:                        d.ID,
		Name:                      d.Name,
		Company:                   d.Company,
		Email:                     d.Email,
		Phone:                     d.Phone,
		Address:                   d.Address,
		ProjectRequirementTitle:   d.ProjectRequirementTitle,
		ProjectRequirementDetails: d.ProjectRequirementDetails,
		Stage:                     stage,
		Value:                     d.Value,
		AssignedTo:                d.AssignedTo,
		CreatedAt:                 d.CreatedAt.UTC(),
		UpdatedAt:                 d.UpdatedAt.UTC(),
		Notes:                     notes,
	}, nil
}

// LeadRepository stores each lead as one document with its notes embedded.
// Notes are appended with $push, so concurrent appends never overwrite
// each other.
type LeadRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{coll: db.Collection(leadsCollection), now: time.Now}
}

func (r *LeadRepository) Create(ctx context.Context, input entity.LeadInput, ownerID string) (string, error) {
	ts := r.now().UTC()
	doc := leadDocument{
		ID:                        uuid.New().String(),
		Name:                      input.Name,
		Company:                   input.Company,
		Email:                     input.Email,
		Phone:                     input.Phone,
		Address:                   input.Address,
		ProjectRequirementTitle:   input.ProjectRequirementTitle,
		ProjectRequirementDetails: input.ProjectRequirementDetails,
		Stage:                     string(entity.StageNew),
		Value:                     input.Value,
		AssignedTo:                ownerID,
		CreatedAt:                 ts,
		UpdatedAt:                 ts,
		Notes:                     []noteDocument{},
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", storeErr("create lead", err)
	}
	return doc.ID, nil
}

func (r *LeadRepository) Get(ctx context.Context, id string) (*entity.Lead, error) {
	var doc leadDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, storeErr("get lead", err)
	}
	return doc.toEntity()
}

func (r *LeadRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	return r.find(ctx, bson.M{"assigned_to": ownerID})
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	return r.find(ctx, bson.M{})
}

func (r *LeadRepository) find(ctx context.Context, filter bson.M) ([]*entity.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("list leads", err)
	}
	defer cur.Close(ctx)

	var docs []leadDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("list leads", err)
	}

	leads := make([]*entity.Lead, 0, len(docs))
	for _, d := range docs {
		lead, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) error {
	set, err := leadUpdateSet(patch, r.now().UTC())
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return storeErr("update lead", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update lead: %w", entity.ErrNotFound)
	}
	return nil
}

func leadUpdateSet(patch entity.LeadPatch, now time.Time) (bson.M, error) {
	set := bson.M{"updated_at": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.ProjectRequirementTitle != nil {
		set["project_requirement_title"] = *patch.ProjectRequirementTitle
	}
	if patch.ProjectRequirementDetails != nil {
		set["project_requirement_details"] = *patch.ProjectRequirementDetails
	}
	if patch.Stage != nil {
		if !patch.Stage.Valid() {
			return nil, fmt.Errorf("update lead: %w: unknown stage %q", entity.ErrValidation, string(*patch.Stage))
		}
		set["stage"] = string(*patch.Stage)
	}
	if patch.Value != nil {
		set["value"] = *patch.Value
	}
	return set, nil
}

func (r *LeadRepository) AppendNote(ctx context.Context, id string, note entity.Note) error {
	ts := r.now().UTC()
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	doc := noteDocument{
		ID:        note.ID,
		Content:   note.Content,
		CreatedBy: note.CreatedBy,
		CreatedAt: ts,
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"notes": doc},
		"$set":  bson.M{"updated_at": ts},
	})
	if err != nil {
		return storeErr("append note", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("append note: %w", entity.ErrNotFound)
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete lead", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete lead: %w", entity.ErrNotFound)
	}
	return nil
}

func (r *LeadRepository) CountByStage(ctx context.Context) (map[entity.Stage]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$stage"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("count leads", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Stage string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeErr("count leads", err)
	}

	counts := make(map[entity.Stage]int, len(entity.Stages()))
	for _, s := range entity.Stages() {
		counts[s] = 0
	}
	for _, row := range rows {
		stage, err := entity.ParseStage(row.Stage)
		if err != nil {
			return nil, fmt.Errorf("count leads: %w", err)
		}
		counts[stage] = row.Count
	}
	return counts, nil
}
