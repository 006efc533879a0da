package process_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
)

func TestParse(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"idle", "ingest", "cull", "color", "delivered"} {
		p, ok := process.Parse(s)
		assert.True(t, ok, s)
		assert.Equal(t, process.Point(s), p)
	}

	for _, s := range []string{"", "Idle", "INGEST", "done", "culling"} {
		_, ok := process.Parse(s)
		assert.False(t, ok, s)
	}
}

func TestPointValid(t *testing.T) {
	t.Parallel()

	assert.True(t, process.Cull.Valid())
	assert.False(t, process.Point("archived").Valid())
	assert.False(t, process.Point("").Valid())
}
