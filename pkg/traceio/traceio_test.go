package traceio_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
)

func record(t *testing.T, algo sorting.Algorithm, input []int) *sorting.Trace {
	t.Helper()

	sorter, err := sorting.New(algo)
	require.NoError(t, err)

	return sorting.Record(sorter, input)
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	codecs := map[string]traceio.Codec{
		"json":        traceio.NewJSONCodec(),
		"compactjson": &traceio.JSONCodec{},
		"yaml":        traceio.YAMLCodec{},
		"lz4":         traceio.LZ4Codec{},
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			want := record(t, sorting.Quick, []int{5, 3, 1, 4, 2})

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(&buf, want))

			got, err := codec.Decode(&buf)
			require.NoError(t, err)

			assert.Equal(t, want, got)
			require.NoError(t, got.Verify())
		})
	}
}

func TestLZ4Codec_Compresses(t *testing.T) {
	t.Parallel()

	trace := record(t, sorting.Bubble, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 9, 8, 7, 6, 5, 4, 3, 2, 1})

	var plain, packed bytes.Buffer
	require.NoError(t, (&traceio.JSONCodec{}).Encode(&plain, trace))
	require.NoError(t, traceio.LZ4Codec{}.Encode(&packed, trace))

	assert.Less(t, packed.Len(), plain.Len())
}

func TestCodecFor(t *testing.T) {
	t.Parallel()

	for format, ext := range map[string]string{"json": ".json", "YAML": ".yaml", "yml": ".yaml", "lz4": ".json.lz4"} {
		codec, err := traceio.CodecFor(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, codec.Extension())
	}

	_, err := traceio.CodecFor("xml")
	require.ErrorIs(t, err, traceio.ErrUnknownFormat)
}

func TestCodecForPath(t *testing.T) {
	t.Parallel()

	for path, ext := range map[string]string{
		"a/run.json":     ".json",
		"run.YML":        ".yaml",
		"run.yaml":       ".yaml",
		"run.json.lz4":   ".json.lz4",
		"/tmp/trace.lz4": ".json.lz4",
	} {
		codec, err := traceio.CodecForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, ext, codec.Extension(), path)
	}

	_, err := traceio.CodecForPath("trace.txt")
	require.ErrorIs(t, err, traceio.ErrUnknownFormat)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := record(t, sorting.Merge, []int{4, 3, 2, 1})

	for _, format := range traceio.Formats() {
		codec, err := traceio.CodecFor(format)
		require.NoError(t, err)

		path := filepath.Join(dir, "trace"+codec.Extension())
		require.NoError(t, traceio.Save(path, codec, want))

		got, err := traceio.Load(path, 0)
		require.NoError(t, err, format)
		assert.Equal(t, want, got, format)
	}
}

func TestLoad_TooLarge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "big.json")
	require.NoError(t, traceio.Save(path, traceio.NewJSONCodec(), record(t, sorting.Bubble, []int{5, 4, 3, 2, 1})))

	_, err := traceio.Load(path, 16)
	require.ErrorIs(t, err, traceio.ErrTraceTooLarge)
}

func TestLoad_CompressedInflatesPastLimit(t *testing.T) {
	t.Parallel()

	ones := slices.Repeat([]int{1}, 100_000)
	path := filepath.Join(t.TempDir(), "bomb.json.lz4")
	require.NoError(t, traceio.Save(path, traceio.LZ4Codec{}, &sorting.Trace{
		Algorithm: sorting.Bubble,
		Input:     ones,
		Events:    []step.Event{},
		Final:     ones,
	}))

	const limit = 64 << 10

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Less(t, info.Size(), int64(limit))

	_, err = traceio.Load(path, limit)
	require.ErrorIs(t, err, traceio.ErrTraceTooLarge)

	got, err := traceio.Load(path, 1<<20)
	require.NoError(t, err)
	assert.Len(t, got.Final, len(ones))
}

func TestLZ4Codec_MaxDecoded(t *testing.T) {
	t.Parallel()

	trace := record(t, sorting.Insertion, []int{9, 4, 7, 1})

	var plain bytes.Buffer
	require.NoError(t, (&traceio.JSONCodec{}).Encode(&plain, trace))

	var packed bytes.Buffer
	require.NoError(t, traceio.LZ4Codec{}.Encode(&packed, trace))

	size := int64(plain.Len())

	got, err := traceio.LZ4Codec{MaxDecoded: size}.Decode(bytes.NewReader(packed.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, trace, got)

	_, err = traceio.LZ4Codec{MaxDecoded: size - 2}.Decode(bytes.NewReader(packed.Bytes()))
	require.ErrorIs(t, err, traceio.ErrTraceTooLarge)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := traceio.Load(filepath.Join(dir, "missing.json"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = traceio.Load(filepath.Join(dir, "trace.csv"), 0)
	require.ErrorIs(t, err, traceio.ErrUnknownFormat)

	garbage := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o600))

	_, err = traceio.Load(garbage, 0)
	require.Error(t, err)
}

func TestParseMaxSize(t *testing.T) {
	t.Parallel()

	n, err := traceio.ParseMaxSize("64MB")
	require.NoError(t, err)
	assert.Equal(t, int64(64_000_000), n)

	n, err = traceio.ParseMaxSize("1 KiB")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)

	for _, bad := range []string{"", "lots", "0"} {
		_, err = traceio.ParseMaxSize(bad)
		require.ErrorIs(t, err, traceio.ErrInvalidMaxSize, bad)
	}
}

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	for _, algo := range sorting.Algorithms() {
		var buf bytes.Buffer
		require.NoError(t, traceio.NewJSONCodec().Encode(&buf, record(t, algo, []int{5, 3, 1, 4, 2})))

		require.NoError(t, traceio.Validate(buf.Bytes()), algo)
	}

	var empty bytes.Buffer
	require.NoError(t, traceio.NewJSONCodec().Encode(&empty, record(t, sorting.Bubble, nil)))
	require.NoError(t, traceio.Validate(empty.Bytes()))
}

func TestValidate_SchemaViolations(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"malformed":     `{"algorithm":`,
		"missing final": `{"algorithm":"bubble","input":[],"events":[]}`,
		"bad algorithm": `{"algorithm":"bogo","input":[],"events":[],"final":[]}`,
		"bad role":      `{"algorithm":"bubble","input":[2,1],"events":[{"index":0,"snapshot":[1,2],"roles":{"0":"hot"}}],"final":[1,2]}`,
		"bad role key":  `{"algorithm":"bubble","input":[2,1],"events":[{"index":0,"snapshot":[1,2],"roles":{"x":"swapped"}}],"final":[1,2]}`,
		"float value":   `{"algorithm":"bubble","input":[1.5],"events":[],"final":[1.5]}`,
		"extra field":   `{"algorithm":"bubble","input":[],"events":[],"final":[],"extra":1}`,
	}

	for name, doc := range cases {
		err := traceio.Validate([]byte(doc))
		require.ErrorIs(t, err, traceio.ErrInvalidTrace, name)

		var verr *traceio.ValidationError
		require.ErrorAs(t, err, &verr, name)
		assert.NotEmpty(t, verr.Violations, name)
	}
}

func TestValidate_SemanticViolations(t *testing.T) {
	t.Parallel()

	trace := record(t, sorting.Bubble, []int{3, 2, 1})
	trace.Final = []int{3, 2, 1}
	trace.Events[0].Roles[7] = "compared"

	data, err := json.Marshal(trace)
	require.NoError(t, err)

	err = traceio.Validate(data)
	require.ErrorIs(t, err, traceio.ErrInvalidTrace)

	var verr *traceio.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Violations), 3)
	assert.Contains(t, err.Error(), "out of range")
	assert.Contains(t, err.Error(), "not sorted")
}

func TestValidate_TamperedSnapshot(t *testing.T) {
	t.Parallel()

	trace := record(t, sorting.Bubble, []int{3, 2, 1})
	trace.Events[1].Snapshot = []int{99, 99, 99}

	var buf bytes.Buffer
	require.NoError(t, traceio.NewJSONCodec().Encode(&buf, trace))

	err := traceio.Validate(buf.Bytes())
	require.ErrorIs(t, err, traceio.ErrInvalidTrace)

	var verr *traceio.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"snapshot is not a permutation of the input: event 1"}, verr.Violations)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	assert.True(t, json.Valid(traceio.Schema()))
}
