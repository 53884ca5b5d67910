package assistant_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrasense/terrasense/internal/assistant"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/project"
)

// scriptedGenerator returns a fixed reply or error and records prompts.
type scriptedGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type testEnv struct {
	svc      *assistant.Service
	history  *assistant.InMemoryRepository
	projects *project.InMemoryRepository
	samples  *monitoring.InMemoryRepository
}

func newTestEnv(t *testing.T, gen assistant.Generator) *testEnv {
	t.Helper()

	env := &testEnv{
		history:  assistant.NewInMemoryRepository(),
		projects: project.NewInMemoryRepository(),
		samples:  monitoring.NewInMemoryRepository(),
	}
	env.svc = assistant.NewService(assistant.ServiceConfig{
		Generator: gen,
		History:   env.history,
		Projects:  env.projects,
		Samples:   env.samples,
		Logger:    zerolog.Nop(),
	})
	return env
}

func (e *testEnv) seedProject(t *testing.T, id string, area float64, degradation estimate.DegradationLevel) {
	t.Helper()

	err := e.projects.Create(context.Background(), &project.Project{
		ID:               id,
		UserID:           "usr_1",
		Name:             "Mara Valley",
		Type:             project.TypeReforestation,
		AreaHectares:     area,
		DegradationLevel: degradation,
		Status:           project.StatusActive,
		CreatedAt:        time.Now().UTC(),
	})
	require.NoError(t, err)
}

func (e *testEnv) seedSample(t *testing.T, projectID string, ndvi, moisture float64) {
	t.Helper()

	err := e.samples.Insert(context.Background(), &monitoring.Sample{
		ID:               "smp_" + projectID,
		ProjectID:        projectID,
		NDVI:             ndvi,
		SoilMoisture:     moisture,
		VegetationHealth: estimate.HealthGood,
		RecordedAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestService_Chat_GeneratorWithContext(t *testing.T) {
	gen := &scriptedGenerator{reply: "Plant acacias along the contour lines."}
	env := newTestEnv(t, gen)
	env.seedProject(t, "prj_1", 4.5, estimate.DegradationModerate)
	env.seedSample(t, "prj_1", 0.55, 42.3)

	entry, err := env.svc.Chat(context.Background(), "usr_1", "prj_1", "What should I plant?")
	require.NoError(t, err)

	assert.Regexp(t, `^cht_`, entry.ID)
	assert.Equal(t, "usr_1", entry.UserID)
	assert.Equal(t, "prj_1", entry.ProjectID)
	assert.Equal(t, "What should I plant?", entry.Message)
	assert.Equal(t, "Plant acacias along the contour lines.", entry.Response)
	assert.False(t, entry.CreatedAt.IsZero())

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Context: ")
	assert.Contains(t, prompt, "User manages 1 projects covering 4.5 hectares")
	assert.Contains(t, prompt, "Current project: Mara Valley (reforestation)")
	assert.Contains(t, prompt, "NDVI: 0.55 (good)")
	assert.Contains(t, prompt, "Vegetation health: good")
	assert.Contains(t, prompt, "Soil moisture: 42.3%")
	assert.Contains(t, prompt, "Question: What should I plant?\nAnswer:")

	// The exchange is persisted.
	entries, err := env.history.ListRecent(context.Background(), "usr_1", "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestService_Chat_NoContextUsesBarePrompt(t *testing.T) {
	gen := &scriptedGenerator{reply: "A perfectly ordinary answer."}
	env := newTestEnv(t, gen)

	_, err := env.svc.Chat(context.Background(), "usr_1", "", "hello")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Equal(t, "hello", gen.prompts[0])
}

func TestService_Chat_EmptyMessage(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.Chat(context.Background(), "usr_1", "", "   ")
	assert.ErrorIs(t, err, assistant.ErrEmptyMessage)
}

func TestService_Chat_GeneratorFailureFallsBack(t *testing.T) {
	gen := &scriptedGenerator{err: assert.AnError}
	env := newTestEnv(t, gen)
	env.seedProject(t, "prj_1", 4.5, estimate.DegradationModerate)
	env.seedSample(t, "prj_1", 0.55, 42.3)

	entry, err := env.svc.Chat(context.Background(), "usr_1", "prj_1", "What is my NDVI?")
	require.NoError(t, err)

	// The rule-based reply reads the NDVI out of the context summary.
	assert.Contains(t, entry.Response, "Your NDVI is 0.55")
}

func TestService_Chat_NoGenerator(t *testing.T) {
	env := newTestEnv(t, nil)

	entry, err := env.svc.Chat(context.Background(), "usr_1", "", "hello")
	require.NoError(t, err)
	assert.Contains(t, entry.Response, "land restoration assistant")
}

func TestService_Chat_ModelsDisabledByFlag(t *testing.T) {
	gen := &scriptedGenerator{reply: "model output"}

	flags := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, flags.SetFlag(context.Background(), &featureflags.Flag{
		Key:   featureflags.FlagDisableAssistantModels,
		Value: true,
	}))

	svc := assistant.NewService(assistant.ServiceConfig{
		Generator:    gen,
		FeatureFlags: flags,
		History:      assistant.NewInMemoryRepository(),
		Projects:     project.NewInMemoryRepository(),
		Samples:      monitoring.NewInMemoryRepository(),
		Logger:       zerolog.Nop(),
	})

	entry, err := svc.Chat(context.Background(), "usr_1", "", "hello")
	require.NoError(t, err)

	assert.Empty(t, gen.prompts, "generator must not be called while disabled")
	assert.Contains(t, entry.Response, "land restoration assistant")
}

func TestService_History(t *testing.T) {
	env := newTestEnv(t, nil)
	base := time.Now().UTC().Add(-time.Hour)

	for i, projectID := range []string{"prj_1", "prj_1", "prj_2"} {
		err := env.history.Insert(context.Background(), &assistant.Entry{
			ID:        "cht_" + string(rune('a'+i)),
			UserID:    "usr_1",
			ProjectID: projectID,
			Message:   "question",
			Response:  "answer",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	// All projects, transcript order.
	entries, err := env.svc.History(context.Background(), "usr_1", "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "cht_a", entries[0].ID)
	assert.Equal(t, "cht_c", entries[2].ID)

	// Project scoped.
	entries, err = env.svc.History(context.Background(), "usr_1", "prj_2", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cht_c", entries[0].ID)

	// Limit keeps the newest entries.
	entries, err = env.svc.History(context.Background(), "usr_1", "", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cht_b", entries[0].ID)
	assert.Equal(t, "cht_c", entries[1].ID)
}

func TestService_ClearHistory(t *testing.T) {
	env := newTestEnv(t, nil)

	for i, projectID := range []string{"prj_1", "prj_1", "prj_2"} {
		err := env.history.Insert(context.Background(), &assistant.Entry{
			ID:        "cht_" + string(rune('a'+i)),
			UserID:    "usr_1",
			ProjectID: projectID,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	removed, err := env.svc.ClearHistory(context.Background(), "usr_1", "prj_1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := env.svc.History(context.Background(), "usr_1", "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prj_2", entries[0].ProjectID)
}

func TestService_Suggestions_Base(t *testing.T) {
	env := newTestEnv(t, nil)

	suggestions := env.svc.Suggestions(context.Background(), "usr_1", "")
	require.Len(t, suggestions, 4)
	assert.Equal(t, "What does my current NDVI tell me?", suggestions[0])
}

func TestService_Suggestions_LowVegetation(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProject(t, "prj_1", 4.5, estimate.DegradationModerate)
	env.seedSample(t, "prj_1", 0.25, 30)

	suggestions := env.svc.Suggestions(context.Background(), "usr_1", "prj_1")
	require.Len(t, suggestions, 5)
	assert.Equal(t, "Why is my vegetation health low?", suggestions[0])
}

func TestService_Suggestions_NoSampleCountsAsLow(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProject(t, "prj_1", 4.5, estimate.DegradationModerate)

	suggestions := env.svc.Suggestions(context.Background(), "usr_1", "prj_1")
	require.Len(t, suggestions, 5)
	assert.Equal(t, "Why is my vegetation health low?", suggestions[0])
}

func TestService_Suggestions_SevereDegradation(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProject(t, "prj_1", 4.5, estimate.DegradationCritical)
	env.seedSample(t, "prj_1", 0.8, 50)

	suggestions := env.svc.Suggestions(context.Background(), "usr_1", "prj_1")
	require.Len(t, suggestions, 5)
	assert.Equal(t, "What emergency actions should I take?", suggestions[0])
	assert.NotContains(t, suggestions, "Why is my vegetation health low?")
}

func TestService_Suggestions_UrgentBothCappedAtFive(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProject(t, "prj_1", 4.5, estimate.DegradationSevere)

	suggestions := env.svc.Suggestions(context.Background(), "usr_1", "prj_1")
	require.Len(t, suggestions, 5)
	assert.Equal(t, "What emergency actions should I take?", suggestions[0])
	assert.Equal(t, "Why is my vegetation health low?", suggestions[1])
	assert.NotContains(t, suggestions, "What restoration techniques should I use?")
}

func TestService_Suggestions_UnknownProjectKeepsBase(t *testing.T) {
	env := newTestEnv(t, nil)

	suggestions := env.svc.Suggestions(context.Background(), "usr_1", "prj_missing")
	assert.Len(t, suggestions, 4)
}
