package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var (
	seller = entity.Actor{ID: "user-1", Name: "Sam Seller", Email: "sam@crm.test", Role: entity.RoleUser}
	admin  = entity.Actor{ID: "admin-1", Name: "Dana Admin", Email: "dana@crm.test", Role: entity.RoleAdmin}
)

type recordingSender struct {
	mu   sync.Mutex
	sent []entity.EmailMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg entity.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type crm struct {
	leads      *memory.LeadStore
	notifs     *memory.NotificationStore
	logs       *memory.LogStore
	emitter    *usecase.NotificationEmitter
	sender     *recordingSender
	create     *usecase.CreateLeadUseCase
	transition *usecase.TransitionStageUseCase
	addNote    *usecase.AddNoteUseCase
}

func newCRM(t *testing.T, sendErr error) *crm {
	t.Helper()
	renderer, err := mail.NewProjectStatusRenderer()
	require.NoError(t, err)

	c := &crm{
		leads:  memory.NewLeadStore(),
		notifs: memory.NewNotificationStore(),
		logs:   memory.NewLogStore(),
		sender: &recordingSender{err: sendErr},
	}
	c.emitter = usecase.NewNotificationEmitter(c.notifs, nil)
	notes := usecase.NewAuditNoteRecorder(c.leads)
	activity := usecase.NewActivityLogger(c.logs, nil)

	c.create = usecase.NewCreateLeadUseCase(c.leads, c.emitter, activity, nil)
	c.transition = usecase.NewTransitionStageUseCase(c.leads, notes, c.emitter, c.sender, renderer, activity,
		[]string{"projects@crm.test"}, nil)
	c.addNote = usecase.NewAddNoteUseCase(c.leads, activity, nil)
	return c
}

func (c *crm) adminNotifications(t *testing.T) []*entity.Notification {
	t.Helper()
	items, err := c.emitter.List(context.Background(), entity.AdminBroadcast)
	require.NoError(t, err)
	return items
}

func (c *crm) createJohn(t *testing.T) string {
	t.Helper()
	id, err := c.create.Execute(context.Background(),
		entity.LeadInput{Name: "John Smith", Company: "Acme", Value: 5000}, seller)
	require.NoError(t, err)
	return id
}

func TestCreatedLeadStartsNewWithoutNotes(t *testing.T) {
	c := newCRM(t, nil)
	id := c.createJohn(t)

	lead, err := c.leads.Get(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, entity.StageNew, lead.Stage)
	assert.Empty(t, lead.Notes)
	assert.NotNil(t, lead.Notes)

	notifs := c.adminNotifications(t)
	require.Len(t, notifs, 1)
	assert.Equal(t, entity.NotificationNewLead, notifs[0].Type)
}

func TestTransitionToContacted(t *testing.T) {
	c := newCRM(t, nil)
	id := c.createJohn(t)

	res, err := c.transition.Execute(context.Background(),
		usecase.TransitionInput{LeadID: id, Stage: "contacted", Actor: seller})

	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeApplied, res.Outcome)
	assert.Empty(t, res.SubFailures)

	lead, err := c.leads.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.StageContacted, lead.Stage)
	require.Len(t, lead.Notes, 1)
	assert.Contains(t, lead.Notes[0].Content, "contacted")
	assert.Equal(t, lead.Notes, res.Lead.Notes)
	assert.Equal(t, lead.UpdatedAt, res.Lead.UpdatedAt)

	var statusChanges int
	for _, n := range c.adminNotifications(t) {
		if n.Type == entity.NotificationStatusChange && n.LeadID == id {
			statusChanges++
		}
	}
	assert.Equal(t, 1, statusChanges)
	assert.Zero(t, c.sender.count())
}

func TestTransitionToProjectWithFailingEmail(t *testing.T) {
	c := newCRM(t, errors.New("smtp: 421 service not available"))
	id := c.createJohn(t)

	res, err := c.transition.Execute(context.Background(),
		usecase.TransitionInput{LeadID: id, Stage: "project", Actor: admin})

	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeApplied, res.Outcome)
	assert.Equal(t, []usecase.FailureKind{usecase.EmailFailed}, usecase.Kinds(res.SubFailures))

	lead, err := c.leads.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.StageProject, lead.Stage)
	assert.Len(t, lead.Notes, 1)
	assert.Len(t, c.adminNotifications(t), 2)
}

func TestTransitionToProjectSendsEmail(t *testing.T) {
	c := newCRM(t, nil)
	id := c.createJohn(t)

	_, err := c.transition.Execute(context.Background(),
		usecase.TransitionInput{LeadID: id, Stage: "project", Actor: seller})

	require.NoError(t, err)
	require.Equal(t, 1, c.sender.count())
	msg := c.sender.sent[0]
	assert.Equal(t, []string{"projects@crm.test"}, msg.To)
	assert.Equal(t, "New Project Status: John Smith from Acme", msg.Subject)
	assert.Contains(t, msg.HTML, "$5,000.00")
	assert.Contains(t, msg.HTML, "Sam Seller")
}

func TestTransitionUnknownLeadWritesNothing(t *testing.T) {
	c := newCRM(t, nil)

	_, err := c.transition.Execute(context.Background(),
		usecase.TransitionInput{LeadID: "does-not-exist", Stage: "contacted", Actor: admin})

	require.Error(t, err)
	assert.Equal(t, usecase.CodeNotFound, usecase.ErrorCode(err))

	all, err := c.leads.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, c.adminNotifications(t))

	page, err := c.logs.List(context.Background(), entity.LogFilter{}, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, c.sender.count())
}

func TestConcurrentTransitionsKeepBothNotes(t *testing.T) {
	c := newCRM(t, nil)
	id := c.createJohn(t)

	var wg sync.WaitGroup
	for _, stage := range []entity.Stage{entity.StageQualified, entity.StageProposal} {
		wg.Add(1)
		go func(stage entity.Stage) {
			defer wg.Done()
			_, err := c.transition.Execute(context.Background(),
				usecase.TransitionInput{LeadID: id, Stage: stage, Actor: seller})
			assert.NoError(t, err)
		}(stage)
	}
	wg.Wait()

	lead, err := c.leads.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, []entity.Stage{entity.StageQualified, entity.StageProposal}, lead.Stage)
	assert.Len(t, lead.Notes, 2)
}

func TestSameStageTransitionIsUnchanged(t *testing.T) {
	c := newCRM(t, nil)
	id := c.createJohn(t)
	before, err := c.leads.Get(context.Background(), id)
	require.NoError(t, err)

	res, err := c.transition.Execute(context.Background(),
		usecase.TransitionInput{LeadID: id, Stage: "new", Actor: seller})

	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeUnchanged, res.Outcome)
	after, err := c.leads.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, c.adminNotifications(t), 1)
}

func TestMarkReadTwice(t *testing.T) {
	c := newCRM(t, nil)
	c.createJohn(t)
	id := c.adminNotifications(t)[0].ID

	require.NoError(t, c.emitter.MarkRead(context.Background(), id))
	require.NoError(t, c.emitter.MarkRead(context.Background(), id))

	n, err := c.notifs.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
}

func TestAddNoteRoundTrip(t *testing.T) {
	c := newCRM(t, nil)
	id := c.createJohn(t)

	_, err := c.addNote.Execute(context.Background(), id, "Asked for a quote", seller)
	require.NoError(t, err)
	_, err = c.addNote.Execute(context.Background(), id, "Sent pricing sheet", admin)
	require.NoError(t, err)

	lead, err := c.leads.Get(context.Background(), id)
	require.NoError(t, err)
	last := lead.Notes[len(lead.Notes)-1]
	assert.Equal(t, "Sent pricing sheet", last.Content)
	assert.Equal(t, admin.ID, last.CreatedBy)
	assert.True(t, strings.HasPrefix(lead.Notes[0].Content, "Asked"))
}
