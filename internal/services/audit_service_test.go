package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leminhha/salespipe/internal/database/testutil"
	"github.com/leminhha/salespipe/internal/models"
)

func TestAuditLogAndList(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	actor := models.User{Email: "actor@example.com", Password: "x", Role: "ADMIN", IsActive: true}
	require.NoError(t, db.Create(&actor).Error)
	userID := actor.ID
	require.NoError(t, svc.Log(context.Background(), AuditEntry{
		UserID:   &userID,
		Action:   "auth.login",
		Resource: "session",
		Result:   "success",
		IP:       "203.0.113.7",
		Metadata: map[string]any{"method": "password"},
	}))
	require.NoError(t, svc.Log(context.Background(), AuditEntry{
		Action: "role.delete",
		Result: "success",
	}))

	entries, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var login bool
	for _, entry := range entries {
		if entry.Action == "auth.login" {
			login = true
			require.NotNil(t, entry.UserID)
			require.Equal(t, userID, *entry.UserID)
			require.Equal(t, "203.0.113.7", entry.IPAddress)
			require.Equal(t, "password", entry.Metadata["method"])
		}
	}
	require.True(t, login)
}

func TestAuditLogRequiresActionAndResult(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	require.Error(t, svc.Log(context.Background(), AuditEntry{Result: "success"}))
	require.Error(t, svc.Log(context.Background(), AuditEntry{Action: "auth.login"}))
}
