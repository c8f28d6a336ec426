package cli

import (
	"fmt"
	"testing"

	"github.com/portseek/portseek/component/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubResolve(pid int) ([]string, error) {
	switch pid {
	case 4312:
		return []string{"3000", "8080"}, nil
	case 5000:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: pid %d", ports.ErrProcessNotFound, pid)
	}
}

func TestResolveEach(t *testing.T) {
	lines, errs := resolveEach([]string{"4312", "5000"}, stubResolve)

	require.Len(t, lines, 2)
	assert.Equal(t, "4312: 3000 8080", lines[0])
	assert.Equal(t, "5000: -", lines[1])
	assert.Nil(t, errs[0])
	assert.Nil(t, errs[1])
}

func TestResolveEachKeepsResultsOnFailure(t *testing.T) {
	// one bad argument must not swallow the other results
	lines, errs := resolveEach([]string{"4312", "not-a-pid", "9999"}, stubResolve)

	assert.Equal(t, "4312: 3000 8080", lines[0])
	assert.NoError(t, errs[0])

	assert.Empty(t, lines[1])
	assert.ErrorIs(t, errs[1], ports.ErrInvalidPID)

	assert.Empty(t, lines[2])
	assert.ErrorIs(t, errs[2], ports.ErrProcessNotFound)
}

func TestResolveEachInvalidArguments(t *testing.T) {
	lines, errs := resolveEach([]string{"not-a-pid", "-7.5", ""}, stubResolve)

	for i := range errs {
		assert.ErrorIs(t, errs[i], ports.ErrInvalidPID)
		assert.Empty(t, lines[i])
	}
}
