package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/tenant"
	inmemdb "github.com/shulepay/shulepay/storage/database/inmem"
	testutil "github.com/shulepay/shulepay/tests"
)

func setup(t *testing.T) (*tenant.Service, tenant.Repository) {
	t.Helper()
	db := inmemdb.NewDB()
	repo := inmemdb.NewTenantRepository(db)
	return tenant.NewService(repo), repo
}

func TestService_AddStudent(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		_, err := svc.AddStudent(ctx, "Mwanga Primary", tenant.NewStudent{Name: "  ", Class: "P1", TotalFee: 1000})
		assert.Error(t, err)

		_, err = svc.AddStudent(ctx, "Mwanga Primary", tenant.NewStudent{Name: "Amani", Class: "P1", TotalFee: -5})
		assert.Error(t, err)
	})

	t.Run("sequential IDs, nothing paid", func(t *testing.T) {
		std1, err := svc.AddStudent(ctx, "Mwanga Primary", tenant.NewStudent{Name: "Amani", Class: "P1", TotalFee: 1000})
		require.NoError(t, err)
		assert.Equal(t, "STD001", std1.ID)
		assert.Equal(t, float64(0), std1.AmountPaid)
		assert.Equal(t, float64(1000), std1.Balance())

		std2, err := svc.AddStudent(ctx, "Mwanga Primary", tenant.NewStudent{Name: "Bahati", Class: "P2", TotalFee: 1500})
		require.NoError(t, err)
		assert.Equal(t, "STD002", std2.ID)
	})
}

func TestService_RecordPayment(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	today := time.Date(2021, 3, 15, 13, 37, 0, 0, time.UTC)
	tenant.NowFunc = func() time.Time { return today }
	defer func() { tenant.NowFunc = time.Now }()

	std := testutil.CreateStudent(t, repo, "Mwanga Primary", "Amani", "P1", 1000, 0)

	t.Run("first payment", func(t *testing.T) {
		pmt, updated, err := svc.RecordPayment(ctx, "Mwanga Primary", tenant.NewPayment{StudentID: std.ID, Amount: 500})
		require.NoError(t, err)
		assert.Equal(t, "PAY001", pmt.ID)
		assert.Equal(t, std.ID, pmt.StudentID)
		assert.Equal(t, float64(500), pmt.Amount)
		assert.Equal(t, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), pmt.Date)
		assert.Equal(t, float64(500), updated.AmountPaid)
		assert.False(t, updated.Paid())

		stored, err := repo.GetStudent(ctx, "Mwanga Primary", std.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(500), stored.AmountPaid)
	})

	t.Run("settles in full", func(t *testing.T) {
		_, updated, err := svc.RecordPayment(ctx, "Mwanga Primary", tenant.NewPayment{StudentID: std.ID, Amount: 500})
		require.NoError(t, err)
		assert.True(t, updated.Paid())
		assert.Equal(t, float64(0), updated.Balance())
	})

	t.Run("exceeding balance is rejected and writes nothing", func(t *testing.T) {
		_, _, err := svc.RecordPayment(ctx, "Mwanga Primary", tenant.NewPayment{StudentID: std.ID, Amount: 1})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "amount", vErr.Fields[0].Field)

		payments, err := svc.Payments(ctx, "Mwanga Primary")
		require.NoError(t, err)
		assert.Len(t, payments, 2)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, _, err := svc.RecordPayment(ctx, "Mwanga Primary", tenant.NewPayment{StudentID: "STD999", Amount: 100})
		var nfErr *core.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})

	t.Run("no cross-tenant payments", func(t *testing.T) {
		_, _, err := svc.RecordPayment(ctx, "Other School", tenant.NewPayment{StudentID: std.ID, Amount: 100})
		var nfErr *core.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestService_AddClass(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	t.Run("creates", func(t *testing.T) {
		cf, err := svc.AddClass(ctx, "Mwanga Primary", tenant.NewClassFee{Name: "P1", Fee: 1000})
		require.NoError(t, err)
		assert.Equal(t, tenant.ClassFee{SchoolName: "Mwanga Primary", Name: "P1", Fee: 1000}, cf)
	})

	t.Run("existing name degrades to a fee update", func(t *testing.T) {
		cf, err := svc.AddClass(ctx, "Mwanga Primary", tenant.NewClassFee{Name: "P1", Fee: 1200})
		require.NoError(t, err)
		assert.Equal(t, float64(1200), cf.Fee)

		classes, err := svc.ClassFees(ctx, "Mwanga Primary")
		require.NoError(t, err)
		assert.Len(t, classes, 1)
		assert.Equal(t, float64(1200), classes[0].Fee)
	})

	t.Run("same name in another tenant is independent", func(t *testing.T) {
		_, err := svc.AddClass(ctx, "Other School", tenant.NewClassFee{Name: "P1", Fee: 700})
		require.NoError(t, err)

		classes, err := repo.QueryClassFees(ctx, "Mwanga Primary")
		require.NoError(t, err)
		assert.Equal(t, float64(1200), classes[0].Fee)
	})
}

func TestService_UpdateClass(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	testutil.CreateClassFee(t, repo, "Mwanga Primary", "P1", 1000)
	testutil.CreateClassFee(t, repo, "Mwanga Primary", "P2", 1500)
	in := testutil.CreateStudent(t, repo, "Mwanga Primary", "Amani", "P1", 1000, 0)
	out := testutil.CreateStudent(t, repo, "Mwanga Primary", "Bahati", "P2", 1500, 0)
	other := testutil.CreateStudent(t, repo, "Other School", "Chiku", "P1", 800, 0)

	t.Run("rename cascades to exactly the class members", func(t *testing.T) {
		err := svc.UpdateClass(ctx, "Mwanga Primary", tenant.UpdateClassFee{OldName: "P1", NewName: "Primary 1", Fee: 1100})
		require.NoError(t, err)

		cf, err := repo.GetClassFee(ctx, "Mwanga Primary", "Primary 1")
		require.NoError(t, err)
		assert.Equal(t, float64(1100), cf.Fee)
		_, err = repo.GetClassFee(ctx, "Mwanga Primary", "P1")
		assert.Equal(t, tenant.ErrClassNotFound, err)

		moved, _ := repo.GetStudent(ctx, "Mwanga Primary", in.ID)
		assert.Equal(t, "Primary 1", moved.Class)
		kept, _ := repo.GetStudent(ctx, "Mwanga Primary", out.ID)
		assert.Equal(t, "P2", kept.Class)
		foreign, _ := repo.GetStudent(ctx, "Other School", other.ID)
		assert.Equal(t, "P1", foreign.Class)
	})

	t.Run("unknown class", func(t *testing.T) {
		err := svc.UpdateClass(ctx, "Mwanga Primary", tenant.UpdateClassFee{OldName: "P9", NewName: "P10", Fee: 100})
		var nfErr *core.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})

	t.Run("renaming onto an existing class", func(t *testing.T) {
		err := svc.UpdateClass(ctx, "Mwanga Primary", tenant.UpdateClassFee{OldName: "Primary 1", NewName: "P2", Fee: 100})
		var cErr *core.ConflictError
		assert.ErrorAs(t, err, &cErr)
	})

	t.Run("fee-only update keeps students in place", func(t *testing.T) {
		err := svc.UpdateClass(ctx, "Mwanga Primary", tenant.UpdateClassFee{OldName: "P2", NewName: "P2", Fee: 1600})
		require.NoError(t, err)
		kept, _ := repo.GetStudent(ctx, "Mwanga Primary", out.ID)
		assert.Equal(t, "P2", kept.Class)
	})
}

func TestUnpaidStudents(t *testing.T) {
	students := []tenant.Student{
		{ID: "STD001", Name: "Amani", Class: "P1", TotalFee: 1000, AmountPaid: 1000},
		{ID: "STD002", Name: "Bahati", Class: "P1", TotalFee: 1000, AmountPaid: 400},
		{ID: "STD003", Name: "Chiku", Class: "P2", TotalFee: 1500, AmountPaid: 0},
	}

	tests := []struct {
		name        string
		classFilter string
		idFilter    string
		wantIDs     []string
	}{
		{name: "no filters", wantIDs: []string{"STD002", "STD003"}},
		{name: "class filter", classFilter: "P1", wantIDs: []string{"STD002"}},
		{name: "id filter", idFilter: "STD003", wantIDs: []string{"STD003"}},
		{name: "id filter on a paid student", idFilter: "STD001", wantIDs: []string{}},
		{name: "both filters", classFilter: "P2", idFilter: "STD003", wantIDs: []string{"STD003"}},
		{name: "mismatched filters", classFilter: "P1", idFilter: "STD003", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tenant.UnpaidStudents(students, tt.classFilter, tt.idFilter)
			ids := make([]string, 0, len(got))
			for _, std := range got {
				ids = append(ids, std.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
