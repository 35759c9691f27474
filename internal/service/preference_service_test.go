package service

import (
	"context"
	"testing"

	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/testdb"
	"gymflow-be/internal/repository/memory"
	"gymflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferenceService(unitofwork.NewRepositoryFactory(testdb.New(t)), memory.NewPreferenceCache(0))
	user := uuid.New()

	pref, err := svc.Get(ctx, user, entity.AiToolLetterWriter)
	require.NoError(t, err)
	assert.Nil(t, pref)

	require.NoError(t, svc.Upsert(ctx, user, entity.AiToolLetterWriter, entity.ParamBag{"tone": entity.StringParam("formal")}))
	pref, err = svc.Get(ctx, user, entity.AiToolLetterWriter)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "formal", pref.Params.Text("tone"))

	// The cached copy must not survive the next write.
	require.NoError(t, svc.Upsert(ctx, user, entity.AiToolLetterWriter, entity.ParamBag{"tone": entity.StringParam("friendly")}))
	pref, err = svc.Get(ctx, user, entity.AiToolLetterWriter)
	require.NoError(t, err)
	assert.Equal(t, "friendly", pref.Params.Text("tone"))

	all, err := svc.GetAll(ctx, user)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPreferenceService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferenceService(unitofwork.NewRepositoryFactory(testdb.New(t)), nil)
	user, other := uuid.New(), uuid.New()

	for _, tool := range []entity.AiTool{entity.AiToolQuiz, entity.AiToolRubric} {
		require.NoError(t, svc.Upsert(ctx, user, tool, nil))
	}
	require.NoError(t, svc.Upsert(ctx, other, entity.AiToolQuiz, nil))

	// Warm the cache before deleting.
	_, err := svc.Get(ctx, user, entity.AiToolQuiz)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll(ctx, user))

	pref, err := svc.Get(ctx, user, entity.AiToolQuiz)
	require.NoError(t, err)
	assert.Nil(t, pref)

	all, err := svc.GetAll(ctx, other)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPreferenceService_LateReadDoesNotRestoreOldValue(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewPreferenceCache(0)
	svc := NewPreferenceService(unitofwork.NewRepositoryFactory(testdb.New(t)), cache)
	user := uuid.New()

	require.NoError(t, svc.Upsert(ctx, user, entity.AiToolLetterWriter, entity.ParamBag{"tone": entity.StringParam("formal")}))
	stale, err := svc.Get(ctx, user, entity.AiToolLetterWriter)
	require.NoError(t, err)

	require.NoError(t, svc.Upsert(ctx, user, entity.AiToolLetterWriter, entity.ParamBag{"tone": entity.StringParam("friendly")}))
	// A reader that loaded the old row before the write lands afterwards.
	cache.Fill(stale)

	pref, err := svc.Get(ctx, user, entity.AiToolLetterWriter)
	require.NoError(t, err)
	assert.Equal(t, "friendly", pref.Params.Text("tone"))
}
