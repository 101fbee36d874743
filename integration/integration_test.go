//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subuser "github.com/stechstudio/sendgrid-subuser-go"
)

var (
	apiUser     string
	apiKey      string
	testSubuser string
)

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	apiUser = os.Getenv("SENDGRID_API_USER")
	apiKey = os.Getenv("SENDGRID_API_KEY")
	testSubuser = os.Getenv("SENDGRID_TEST_SUBUSER")

	if apiUser == "" || apiKey == "" {
		os.Stderr.WriteString("Skipping integration tests: SENDGRID_API_USER or SENDGRID_API_KEY not set\n")
		os.Exit(0)
	}

	os.Stderr.WriteString("Running integration tests...\n")
	os.Exit(m.Run())
}

func newClient(t *testing.T) *subuser.Client {
	t.Helper()

	client, err := subuser.New(apiUser, apiKey, subuser.WithTimeout(30*time.Second))
	require.NoError(t, err)
	return client
}

func requireSubuser(t *testing.T) string {
	t.Helper()
	if testSubuser == "" {
		t.Skip("SENDGRID_TEST_SUBUSER not set")
	}
	return testSubuser
}

func TestIntegration_Subusers(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, err := client.Subusers(ctx)
	require.NoError(t, err)
	t.Logf("Account has %d subuser(s)", len(users))

	for _, u := range users {
		assert.NotEmpty(t, u.Username)
	}
}

func TestIntegration_BadCredentials(t *testing.T) {
	client, err := subuser.New(apiUser, "definitely-not-the-key")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err = client.Subusers(ctx)
	require.Error(t, err)

	var apiErr *subuser.APIError
	assert.True(t, errors.As(err, &apiErr), "want *APIError, got %T: %v", err, err)
}

func TestIntegration_SubuserExists(t *testing.T) {
	user := requireSubuser(t)
	client := newClient(t)

	exists, err := client.SubuserExists(context.Background(), user)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIntegration_Suppressions(t *testing.T) {
	user := requireSubuser(t)
	client := newClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	emails := []string{"integration-check-1@example.com", "integration-check-2@example.com"}
	report, err := client.Suppressions(ctx, user, subuser.Many(emails...))
	require.NoError(t, err)

	assert.Equal(t, len(emails), report.Len())
	for _, email := range emails {
		assert.True(t, report.Contains(email), email)
	}
}

func TestIntegration_AppsAndStats(t *testing.T) {
	user := requireSubuser(t)
	client := newClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	apps, err := client.Apps(ctx, user)
	require.NoError(t, err)
	t.Logf("Subuser has %d app(s)", len(apps))

	_, err = client.Statistics(ctx, user, subuser.StatsQuery{Days: 7})
	require.NoError(t, err)

	_, err = client.Limits(ctx, user)
	require.NoError(t, err)
}

func TestIntegration_CreditValidationSendsNothing(t *testing.T) {
	client := newClient(t)

	err := client.IncrementCredits(context.Background(), "any", 0)
	assert.ErrorIs(t, err, subuser.ErrInvalidArgument)
}
