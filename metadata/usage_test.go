package metadata_test

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/metadata"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	metadata.SetLogger(zap.New(core))
	t.Cleanup(func() { metadata.SetLogger(zap.NewNop()) })
	return logs
}

func TestUsages(t *testing.T) {
	logs := observeLogs(t)
	m := loadSample(t, metadata.Options{Parallelism: 2})

	table, err := m.Usages(context.Background())
	require.NoError(t, err)

	typeRef := func(row uint32) handle.Handle { return handle.New(handle.TableTypeRef, row) }
	want := map[handle.Handle][]handle.Handle{
		typeRef(2):   {mainMethod}, // local of class type
		typeRef(3):   {mainMethod}, // generic type inside the TypeSpec
		typeRef(4):   {mainMethod}, // catch type
		counterField: {mainMethod, helperMethod},
		writeLine:    {mainMethod},
		mainLocals:   {mainMethod},
		listOfInt:    {mainMethod},
	}
	assert.Equal(t, "Sample.dll", table.Module)
	assert.Equal(t, want, table.Uses)
	assert.Equal(t, []handle.Handle{brokenMethod}, table.Undecodable)

	assert.Equal(t, []handle.Handle{mainMethod, helperMethod}, table.UsedBy(counterField))
	assert.Nil(t, table.UsedBy(handle.New(handle.TableUserString, 1)), "user strings are not recorded")
	assert.Equal(t, []handle.Handle{
		typeRef(2), typeRef(3), typeRef(4), counterField, writeLine, mainLocals, listOfInt,
	}, table.Handles())

	warned := logs.FilterMessage("method body is undecodable").All()
	require.Len(t, warned, 1)
	assert.Equal(t, zapcore.WarnLevel, warned[0].Level)
	assert.Equal(t, "Broken", warned[0].ContextMap()["method"])
}

func TestUsagesComputedOnce(t *testing.T) {
	logs := observeLogs(t)
	m := loadSample(t, metadata.Options{Parallelism: 4})

	const callers = 8
	tables := make([]*metadata.UsageTable, callers)
	var wg sync.WaitGroup
	for k := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := m.Usages(context.Background())
			assert.NoError(t, err)
			tables[k] = table
		}()
	}
	wg.Wait()

	for _, table := range tables[1:] {
		assert.Same(t, tables[0], table)
	}
	assert.Equal(t, 1, logs.FilterMessage("scanned handle usages").Len())
}

func TestUsagesFailFast(t *testing.T) {
	logs := observeLogs(t)
	m := loadSample(t, metadata.Options{FailFast: true})

	_, err := m.Usages(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err), "got %v", err)
	assert.Zero(t, logs.FilterMessage("method body is undecodable").Len())

	// the failure is memoized
	_, again := m.Usages(context.Background())
	assert.Same(t, err, again)
}

func TestUsagesCancelled(t *testing.T) {
	m := loadSample(t, metadata.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Usages(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUsageTableCBOR(t *testing.T) {
	m := loadSample(t, metadata.Options{})
	table, err := m.Usages(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := table.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	// canonical encoding is deterministic
	var again bytes.Buffer
	_, err = table.WriteTo(&again)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), again.Bytes())

	read, err := metadata.ReadUsageTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, read)
}

func TestUsageTableDescribes(t *testing.T) {
	m := loadSample(t, metadata.Options{})
	table, err := m.Usages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, m.Mvid, table.Mvid)
	assert.Equal(t, 1, table.Generation)
	assert.Len(t, table.Digest, 32)
	assert.True(t, table.Describes(m))
	assert.True(t, table.Describes(loadSample(t, metadata.Options{Parallelism: 4})), "options do not change the content")

	data, err := os.ReadFile("testdata/sample.yaml")
	require.NoError(t, err)

	load := func(t *testing.T, data []byte) *metadata.Module {
		t.Helper()
		f, err := metadata.ParseFixture(data)
		require.NoError(t, err)
		m, err := metadata.FromFixture(f, metadata.Options{})
		require.NoError(t, err)
		return m
	}

	// Helper no longer reads the counter field; name, mvid and generation stay
	edited := load(t, bytes.Replace(data, []byte(`"1E 7E 01 00 00 04 26 2A"`), []byte(`"1E 00 00 00 00 00 00 2A"`), 1))
	require.Equal(t, m.Mvid, edited.Mvid)
	assert.NotEqual(t, m.Digest(), edited.Digest())
	assert.False(t, table.Describes(edited))

	bumped := load(t, bytes.Replace(data, []byte("generation: 1"), []byte("generation: 2"), 1))
	assert.Equal(t, m.Digest(), bumped.Digest())
	assert.False(t, table.Describes(bumped))
}

func TestReadUsageTableMalformed(t *testing.T) {
	_, err := metadata.ReadUsageTable(bytes.NewReader([]byte{0xFF, 0x00}))
	assert.True(t, errors.IsMalformed(err), "got %v", err)

	table, err := metadata.ReadUsageTable(bytes.NewReader([]byte{0xA0}))
	require.NoError(t, err)
	assert.NotNil(t, table.Uses)
	assert.Empty(t, table.Handles())
}
