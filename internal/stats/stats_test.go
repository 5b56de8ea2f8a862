package stats

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/sheetchart/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(vs ...float64) []models.Cell {
	cells := make([]models.Cell, len(vs))
	for i, v := range vs {
		cells[i] = models.Number(v)
	}
	return cells
}

func column(name string, cells []models.Cell) *models.Table {
	rows := make([][]models.Cell, len(cells))
	for i, c := range cells {
		rows[i] = []models.Cell{c}
	}
	return models.NewTable("Sheet1", []string{name}, rows)
}

func TestNativeOneToFive(t *testing.T) {
	got, err := Describe(context.Background(), NewNativeEngine(), column("v", numbers(1, 2, 3, 4, 5)), "v")
	require.NoError(t, err)

	assert.Equal(t, 5, got.Count)
	assert.Equal(t, 3.0, got.Mean)
	assert.Equal(t, 3.0, got.Median)
	assert.Equal(t, 1.0, got.Min)
	assert.Equal(t, 5.0, got.Max)
	assert.Equal(t, 15.0, got.Sum)
	assert.Equal(t, 2.0, got.Q25)
	assert.Equal(t, 4.0, got.Q75)
	assert.InDelta(t, math.Sqrt(2.5), got.Std, 1e-12)
}

func TestNativeInterpolatesQuantiles(t *testing.T) {
	got, err := NewNativeEngine().Compute(context.Background(), []float64{4, 1, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 2.5, got.Median)
	assert.Equal(t, 1.75, got.Q25)
	assert.Equal(t, 3.25, got.Q75)
}

func TestNativeDecimalSum(t *testing.T) {
	got, err := NewNativeEngine().Compute(context.Background(), []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.3, got.Sum)
	assert.Equal(t, 0.15, got.Mean)
}

func TestNativeSingleValue(t *testing.T) {
	got, err := NewNativeEngine().Compute(context.Background(), []float64{7})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 0.0, got.Std)
	assert.Equal(t, 7.0, got.Q25)
	assert.Equal(t, 7.0, got.Q75)
}

func TestCoerce(t *testing.T) {
	cells := []models.Cell{
		models.Number(1.5),
		models.Null(),
		models.Text(" 2 "),
		models.Text("abc"),
		models.Bool(true),
		models.Bool(false),
		models.Timestamp(time.Now()),
		models.Number(math.Inf(1)),
		models.Text("NaN"),
	}
	assert.Equal(t, []float64{1.5, 2, 1, 0}, Coerce(cells))
}

func TestDescribeEmptyColumn(t *testing.T) {
	table := column("Notes", []models.Cell{models.Text("a"), models.Null(), models.Text("b")})

	for _, e := range []Engine{NewNativeEngine(), NewDuckDBEngine()} {
		got, err := Describe(context.Background(), e, table, "Notes")
		assert.Nil(t, got, e.Name())

		var empty *models.EmptyColumnError
		require.ErrorAs(t, err, &empty, e.Name())
		assert.Equal(t, "Notes", empty.Column)
	}
}

func TestNativeOrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(60)
		values := make([]float64, n)
		for i := range values {
			values[i] = math.Round((rng.NormFloat64()*1000)*100) / 100
		}
		values[0], values[1] = -5000, 5000 // at least two distinct values

		got, err := NewNativeEngine().Compute(context.Background(), values)
		require.NoError(t, err)

		assert.LessOrEqual(t, got.Min, got.Q25)
		assert.LessOrEqual(t, got.Q25, got.Median)
		assert.LessOrEqual(t, got.Median, got.Q75)
		assert.LessOrEqual(t, got.Q75, got.Max)
		assert.GreaterOrEqual(t, got.Mean, got.Min)
		assert.LessOrEqual(t, got.Mean, got.Max)
		assert.False(t, math.IsNaN(got.Std) || math.IsInf(got.Std, 0))
		assert.Equal(t, n, got.Count)
	}
}

func TestDuckDBAgreesWithNative(t *testing.T) {
	values := []float64{12.5, 3, 8.25, 100, -4, 3, 17.75}

	want, err := NewNativeEngine().Compute(context.Background(), values)
	require.NoError(t, err)
	got, err := NewDuckDBEngine().Compute(context.Background(), values)
	require.NoError(t, err)

	assert.Equal(t, want.Count, got.Count)
	assert.InDelta(t, want.Mean, got.Mean, 1e-9)
	assert.InDelta(t, want.Median, got.Median, 1e-9)
	assert.InDelta(t, want.Std, got.Std, 1e-9)
	assert.InDelta(t, want.Min, got.Min, 1e-9)
	assert.InDelta(t, want.Max, got.Max, 1e-9)
	assert.InDelta(t, want.Sum, got.Sum, 1e-9)
	assert.InDelta(t, want.Q25, got.Q25, 1e-9)
	assert.InDelta(t, want.Q75, got.Q75, 1e-9)
}

func TestDuckDBSingleValue(t *testing.T) {
	got, err := NewDuckDBEngine().Compute(context.Background(), []float64{42})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 0.0, got.Std)
	assert.Equal(t, 42.0, got.Median)
}

func TestNewEngine(t *testing.T) {
	for name, want := range map[string]string{"": EngineNative, "native": EngineNative, "DuckDB": EngineDuckDB} {
		e, err := NewEngine(name)
		require.NoError(t, err)
		assert.Equal(t, want, e.Name())
	}

	_, err := NewEngine("spark")
	assert.Error(t, err)
}
