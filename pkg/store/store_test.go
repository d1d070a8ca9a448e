package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

// Both implementations must satisfy the same contract; the suite runs against
// each.
func forEachStore(t *testing.T, fn func(t *testing.T, st Store)) {
	t.Helper()
	t.Run("sqlite", func(t *testing.T) {
		fn(t, createTestSQLite(t))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
}

func TestLeadLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		ctx := context.Background()

		lead := &Lead{Name: "Rohit", Phone: "+91-9999900001", Source: "website", Message: "Looking for a 2BHK"}
		require.NoError(t, st.CreateLead(ctx, lead))
		assert.NotEmpty(t, lead.ID)
		assert.Equal(t, StatusNew, lead.Status)
		assert.False(t, lead.CreatedAt.IsZero())

		got, err := st.GetLead(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rohit", got.Name)
		assert.Equal(t, StatusNew, got.Status)

		require.NoError(t, st.UpdateLeadStatus(ctx, lead.ID, StatusHot))
		got, err = st.GetLead(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusHot, got.Status)
	})
}

func TestCreateLeadDuplicatePhone(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		ctx := context.Background()

		first := &Lead{Name: "Rohit", Phone: "+91-9999900001"}
		require.NoError(t, st.CreateLead(ctx, first))

		second := &Lead{Name: "Someone Else", Phone: "+91-9999900001"}
		err := st.CreateLead(ctx, second)
		assert.ErrorIs(t, err, ErrDuplicatePhone)
	})
}

func TestGetLeadNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		_, err := st.GetLead(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrLeadNotFound)
	})
}

func TestUpdateLeadStatusNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		err := st.UpdateLeadStatus(context.Background(), "missing", StatusCold)
		assert.ErrorIs(t, err, ErrLeadNotFound)
	})
}

func TestConversationLifecycle(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		ctx := context.Background()

		lead := &Lead{Name: "Rohit", Phone: "+91-9999900001"}
		require.NoError(t, st.CreateLead(ctx, lead))

		_, err := st.GetConversation(ctx, lead.ID)
		assert.ErrorIs(t, err, ErrConversationNotFound)

		conv := &Conversation{LeadID: lead.ID, LeadName: "Rohit", Answers: map[string]string{}}
		require.NoError(t, st.CreateConversation(ctx, conv))
		assert.Equal(t, int64(1), conv.Version)

		got, err := st.GetConversation(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.CurrentIndex)
		assert.Equal(t, int64(1), got.Version)
		assert.NotNil(t, got.Answers)

		got.CurrentIndex = 2
		got.Answers["city"] = "Mumbai"
		require.NoError(t, st.UpdateConversation(ctx, got))
		assert.Equal(t, int64(2), got.Version)

		reread, err := st.GetConversation(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reread.CurrentIndex)
		assert.Equal(t, "Mumbai", reread.Answers["city"])
		assert.Equal(t, int64(2), reread.Version)
	})
}

func TestUpdateConversationVersionConflict(t *testing.T) {
	forEachStore(t, func(t *testing.T, st Store) {
		ctx := context.Background()

		lead := &Lead{Name: "Rohit", Phone: "+91-9999900001"}
		require.NoError(t, st.CreateLead(ctx, lead))
		require.NoError(t, st.CreateConversation(ctx, &Conversation{LeadID: lead.ID, Answers: map[string]string{}}))

		// Two turns read the same version.
		a, err := st.GetConversation(ctx, lead.ID)
		require.NoError(t, err)
		b, err := st.GetConversation(ctx, lead.ID)
		require.NoError(t, err)

		a.CurrentIndex = 1
		require.NoError(t, st.UpdateConversation(ctx, a))

		// The second write was based on stale state and must not clobber.
		b.CurrentIndex = 5
		err = st.UpdateConversation(ctx, b)
		assert.ErrorIs(t, err, ErrVersionConflict)

		got, err := st.GetConversation(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentIndex)
	})
}

func TestCloneIsolation(t *testing.T) {
	conv := &Conversation{LeadID: "x", Answers: map[string]string{"city": "Pune"}}
	cp := conv.Clone()
	cp.Answers["city"] = "Delhi"
	assert.Equal(t, "Pune", conv.Answers["city"])
}

func TestMemoryStoreReadIsolation(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	lead := &Lead{Name: "Rohit", Phone: "+91-9999900001"}
	require.NoError(t, st.CreateLead(ctx, lead))
	require.NoError(t, st.CreateConversation(ctx, &Conversation{LeadID: lead.ID, Answers: map[string]string{}}))

	got, err := st.GetConversation(ctx, lead.ID)
	require.NoError(t, err)
	got.Answers["budget"] = "mutated"

	again, err := st.GetConversation(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Answers["budget"], "mutating a read result must not affect stored state")
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(path)
	require.NoError(t, err)
	lead := &Lead{Name: "Rohit", Phone: "+91-9999900001"}
	require.NoError(t, st.CreateLead(ctx, lead))
	require.NoError(t, st.Close())

	st2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, st2.Close()) }()

	got, err := st2.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rohit", got.Name)
}
