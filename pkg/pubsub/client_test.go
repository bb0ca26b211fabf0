package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migapan/storefront-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "bakery-prod"}

	assert.Equal(t, "projects/bakery-prod/topics/bakery-orders", c.topicResourceName("bakery-orders"))
	assert.Equal(t, "projects/other/topics/x", c.topicResourceName("projects/other/topics/x"))
	assert.Empty(t, c.topicResourceName("  "))
	assert.Empty(t, (&Client{}).topicResourceName("bakery-orders"))
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, []string{"bakery-orders"}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)
}

func TestNormalizeNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeNames([]string{" a ", "", "b"}))
}

func TestNilClientPublisher(t *testing.T) {
	var c *Client
	assert.Nil(t, c.Publisher("bakery-orders"))
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
