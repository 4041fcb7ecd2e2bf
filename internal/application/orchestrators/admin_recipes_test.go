package orchestrators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receitas/internal/adapters/email"
	"receitas/internal/domain/recipe"
)

func TestExecuteSaveRecipe_CreateWithImage(t *testing.T) {
	fake := newFakeAdminWrites()
	got, err := ExecuteSaveRecipe(context.Background(), SaveRecipeInput{
		AuthHeader:    "Basic x",
		Payload:       recipe.Payload{Title: "Bolo", Content: "Misture"},
		Image:         strings.NewReader("img"),
		ImageFilename: "bolo.jpg",
	}, AdminRecipeDeps{API: fake})

	require.NoError(t, err)
	assert.Equal(t, int64(99), got.ID)
	require.Len(t, fake.created, 1)
	assert.Equal(t, recipe.DefaultCategory, fake.created[0].Category)
	assert.Equal(t, "https://cdn.example.com/bolo.jpg", fake.created[0].ImageURL)
	assert.Equal(t, []string{"bolo.jpg:img"}, fake.uploaded)
}

func TestExecuteSaveRecipe_UpdateAndValidation(t *testing.T) {
	fake := newFakeAdminWrites()
	_, err := ExecuteSaveRecipe(context.Background(), SaveRecipeInput{ID: 4, Payload: recipe.Payload{Title: "T", Content: "C", Category: "doces"}},
		AdminRecipeDeps{API: fake})
	require.NoError(t, err)
	assert.Equal(t, "doces", fake.updated[4].Category)

	_, err = ExecuteSaveRecipe(context.Background(), SaveRecipeInput{Payload: recipe.Payload{Content: "C"}}, AdminRecipeDeps{API: fake})
	assert.ErrorIs(t, err, recipe.ErrEmptyTitle)
	assert.Empty(t, fake.created)
}

func TestExecuteToggleRecipeVisibility_FlipsAndKeepsFields(t *testing.T) {
	fake := newFakeAdminWrites()
	got, err := ExecuteToggleRecipeVisibility(context.Background(), ToggleRecipeInput{
		Recipe: recipe.Recipe{ID: 2, Title: "Jantar", Content: "...", IsPublic: false},
	}, AdminRecipeDeps{API: fake})

	require.NoError(t, err)
	assert.True(t, got.IsPublic)
	assert.Equal(t, recipe.Payload{Title: "Jantar", Content: "...", Category: recipe.DefaultCategory, IsPublic: true}, fake.updated[2])
}

func TestExecuteDeleteRecipeAndSetPayment(t *testing.T) {
	fake := newFakeAdminWrites()
	require.NoError(t, ExecuteDeleteRecipe(context.Background(), DeleteRecipeInput{ID: 5}, AdminRecipeDeps{API: fake}))
	assert.Equal(t, []int64{5}, fake.deleted)

	u, err := ExecuteSetUserPayment(context.Background(), SetUserPaymentInput{UserID: "a@b.c", HasPaid: true}, AdminRecipeDeps{API: fake})
	require.NoError(t, err)
	assert.True(t, u.HasPaid)
	require.NotNil(t, fake.users["a@b.c"].HasPaid)
	assert.True(t, *fake.users["a@b.c"].HasPaid)

	fake.err = errTransport
	assert.ErrorIs(t, ExecuteDeleteRecipe(context.Background(), DeleteRecipeInput{ID: 6}, AdminRecipeDeps{API: fake}), errTransport)
}

func TestExecuteSendSuggestion(t *testing.T) {
	sender := email.NewNoopSender()
	deps := SendSuggestionDeps{Sender: sender, To: "editora@example.com"}

	require.NoError(t, ExecuteSendSuggestion(context.Background(), SendSuggestionInput{From: "ana@example.com", Text: "Piquenique <ao> luar"}, deps))
	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].ReplyTo)
	assert.Contains(t, sent[0].HTML, "&lt;ao&gt;")

	assert.ErrorIs(t, ExecuteSendSuggestion(context.Background(), SendSuggestionInput{Text: "  "}, deps), ErrEmptySuggestion)
	assert.ErrorIs(t, ExecuteSendSuggestion(context.Background(), SendSuggestionInput{Text: "x"}, SendSuggestionDeps{Sender: sender}), ErrSuggestionsDisabled)
}
