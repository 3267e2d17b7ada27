package service

import (
	"context"
	"testing"
	"time"

	"github.com/oms-support/ticketdesk/internal/errs"
	"github.com/oms-support/ticketdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Accepter{}, &model.Ticket{}))
	return db
}

func newTestTicket(creator string) *model.Ticket {
	return &model.Ticket{
		Operator:            "Bitel",
		Issue:               "Degraded throughput in Lima",
		IssueDescription:    "Cell 4512 shows sustained PRB congestion",
		KPIsAffected:        "DL throughput, PRB utilization",
		CounterEvaluation:   "PRB > 90% during busy hour",
		OptimizationActions: "Load balancing to n78 layer",
		Priority:            model.PriorityNormal,
		StartTime:           time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC),
		Creator:             creator,
		PhoneNumber:         "+51 900 000 000",
	}
}

func createTicket(t *testing.T, svc *TicketService, creator string) *model.Ticket {
	t.Helper()
	tk := newTestTicket(creator)
	require.NoError(t, svc.Create(context.Background(), tk))
	return tk
}

func seedAccepter(t *testing.T, db *gorm.DB) *model.Accepter {
	t.Helper()
	a := &model.Accepter{Name: "Maria Flores", Email: "maria@example.com"}
	require.NoError(t, NewAccepterService(db).Create(context.Background(), a))
	return a
}

func TestCreateAssignsIdentityAndDefaults(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "Peru", tk.Country)
	assert.Regexp(t, `^Peru-\d{8}-\d{3}$`, tk.Code)
	assert.Equal(t, model.StatusInprocess, tk.Status)
	assert.Nil(t, tk.EndTime)
	assert.Nil(t, tk.AccepterID)
}

func TestCreateRejectsUnknownOperator(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := newTestTicket("alice@example.com")
	tk.Operator = "Verizon"
	assert.ErrorIs(t, svc.Create(context.Background(), tk), errs.ErrUnknownOperator)
}

func TestCreateRejectsInvalidPriority(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := newTestTicket("alice@example.com")
	tk.Priority = "High"
	assert.ErrorIs(t, svc.Create(context.Background(), tk), errs.ErrInvalidPriority)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewTicketService(testDB(t))
	_, err := svc.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestListByCreatorOnlyReturnsOwnTickets(t *testing.T) {
	db := testDB(t)
	svc := NewTicketService(db)
	createTicket(t, svc, "alice@example.com")
	createTicket(t, svc, "alice@example.com")
	createTicket(t, svc, "bob@example.com")

	mine, err := svc.ListByCreator(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateStatusClosedStampsEndTime(t *testing.T) {
	db := testDB(t)
	svc := NewTicketService(db)
	a := seedAccepter(t, db)
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.AssignAccepter(context.Background(), tk.ID, a.ID)
	require.NoError(t, err)

	closed, err := svc.UpdateStatus(context.Background(), tk.ID, model.StatusClosed)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	// Closing keeps the accepter on record.
	require.NotNil(t, closed.AccepterID)
	assert.Equal(t, a.ID, *closed.AccepterID)
}

func TestUpdateStatusAcceptedRequiresAccepter(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.UpdateStatus(context.Background(), tk.ID, model.StatusAccepted)
	assert.ErrorIs(t, err, errs.ErrAccepterRequired)
}

func TestUpdateStatusBackToInprocessClearsAccepter(t *testing.T) {
	db := testDB(t)
	svc := NewTicketService(db)
	a := seedAccepter(t, db)
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.AssignAccepter(context.Background(), tk.ID, a.ID)
	require.NoError(t, err)

	back, err := svc.UpdateStatus(context.Background(), tk.ID, model.StatusInprocess)
	require.NoError(t, err)
	assert.Nil(t, back.AccepterID)
}

func TestReopenKeepsStaleEndTime(t *testing.T) {
	db := testDB(t)
	svc := NewTicketService(db)
	tk := createTicket(t, svc, "alice@example.com")

	closed, err := svc.UpdateStatus(context.Background(), tk.ID, model.StatusClosed)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)

	reopened, err := svc.UpdateStatus(context.Background(), tk.ID, model.StatusInprocess)
	require.NoError(t, err)
	assert.NotNil(t, reopened.EndTime)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.UpdateStatus(context.Background(), tk.ID, "Done")
	assert.ErrorIs(t, err, errs.ErrInvalidStatus)
}

func TestAssignAccepterMovesToAccepted(t *testing.T) {
	db := testDB(t)
	svc := NewTicketService(db)
	a := seedAccepter(t, db)
	tk := createTicket(t, svc, "alice@example.com")

	got, err := svc.AssignAccepter(context.Background(), tk.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status)
	require.NotNil(t, got.Accepter)
	assert.Equal(t, "Maria Flores", got.Accepter.Name)
}

func TestAssignAccepterUnknownStaff(t *testing.T) {
	db := testDB(t)
	svc := NewTicketService(db)
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.AssignAccepter(context.Background(), tk.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, errs.ErrAccepterNotFound)
}

func TestWithdrawOnlyByCreator(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.Withdraw(context.Background(), tk.ID, "mallory@example.com")
	assert.ErrorIs(t, err, errs.ErrNotCreator)

	got, err := svc.Withdraw(context.Background(), tk.ID, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWithdrawn, got.Status)
	assert.Nil(t, got.AccepterID)
}

func TestDeleteTicket(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	require.NoError(t, svc.Delete(context.Background(), tk.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), tk.ID), errs.ErrTicketNotFound)
}

func TestSaveResponseResetsReadFlag(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	got, err := svc.SaveResponse(context.Background(), tk.ID, "first pass done", []string{"img1"}, nil)
	require.NoError(t, err)
	require.True(t, got.HasResponse())
	assert.False(t, got.ResponseRead)
	require.NotNil(t, got.ResponseCreatedAt)
	firstCreated := *got.ResponseCreatedAt

	require.NoError(t, svc.MarkResponseRead(context.Background(), tk.ID))
	read, err := svc.GetByID(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.True(t, read.ResponseRead)

	// Editing the response flips it back to unread and keeps created_at.
	again, err := svc.SaveResponse(context.Background(), tk.ID, "second pass", nil, []string{"doc1"})
	require.NoError(t, err)
	assert.False(t, again.ResponseRead)
	require.NotNil(t, again.ResponseCreatedAt)
	assert.Equal(t, firstCreated.Unix(), again.ResponseCreatedAt.Unix())
}

func TestDeleteResponse(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.DeleteResponse(context.Background(), tk.ID)
	assert.ErrorIs(t, err, errs.ErrNoResponse)

	_, err = svc.SaveResponse(context.Background(), tk.ID, "note", nil, nil)
	require.NoError(t, err)

	got, err := svc.DeleteResponse(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.False(t, got.HasResponse())
	assert.Nil(t, got.ResponseCreatedAt)
	assert.Empty(t, got.ResponseImages)
}

func TestSolutionLifecycle(t *testing.T) {
	svc := NewTicketService(testDB(t))
	tk := createTicket(t, svc, "alice@example.com")

	_, err := svc.DeleteSolution(context.Background(), tk.ID)
	assert.ErrorIs(t, err, errs.ErrNoSolution)

	got, err := svc.SaveSolution(context.Background(), tk.ID, "reparented the cell", []string{"before.png"}, []string{"report.pdf"})
	require.NoError(t, err)
	require.True(t, got.HasSolution())
	assert.False(t, got.SolutionRead)

	require.NoError(t, svc.MarkSolutionRead(context.Background(), tk.ID))
	read, err := svc.GetByID(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.True(t, read.SolutionRead)

	cleared, err := svc.DeleteSolution(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.False(t, cleared.HasSolution())
	assert.False(t, cleared.SolutionRead)
}

func TestMarkReadUnknownTicket(t *testing.T) {
	svc := NewTicketService(testDB(t))
	err := svc.MarkResponseRead(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}
