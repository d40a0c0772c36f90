package mood

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func TestTimeSeriesLogEmptySnapshot(t *testing.T) {
	l := NewTimeSeriesLog(30)
	snap := l.Snapshot()
	require.NotNil(t, snap)
	require.Empty(t, snap)
}

func TestTimeSeriesLogTruncatesToSecond(t *testing.T) {
	l := NewTimeSeriesLog(30)
	l.Append(t0.Add(1500*time.Millisecond), Happy)
	require.Equal(t, t0.Add(time.Second), l.Snapshot()[0].Time)
}

func TestTimeSeriesLogEvictsOldest(t *testing.T) {
	const m = 5
	l := NewTimeSeriesLog(m)
	var all []Entry
	for i := 0; i <= m; i++ {
		e := Entry{Time: t0.Add(time.Duration(i) * time.Second), Mood: Vocabulary[i%len(Vocabulary)]}
		all = append(all, e)
		l.Append(e.Time, e.Mood)
		require.LessOrEqual(t, l.Len(), m)
	}

	snap := l.Snapshot()
	require.Len(t, snap, m)
	require.Equal(t, all[1], snap[0])
	if diff := cmp.Diff(all[1:], snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeSeriesLogSnapshotIsCopy(t *testing.T) {
	l := NewTimeSeriesLog(2)
	l.Append(t0, Happy)
	snap := l.Snapshot()

	l.Append(t0.Add(time.Second), Sad)
	l.Append(t0.Add(2*time.Second), Angry)
	snap[0].Mood = Fear

	require.Len(t, snap, 1)
	require.Equal(t, []Entry{
		{Time: t0.Add(time.Second), Mood: Sad},
		{Time: t0.Add(2 * time.Second), Mood: Angry},
	}, l.Snapshot())
}

func TestTimeSeriesLogConcurrentAppend(t *testing.T) {
	l := NewTimeSeriesLog(30)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Append(t0.Add(time.Duration(i)*time.Second), Vocabulary[g%len(Vocabulary)])
				_ = l.Snapshot()
			}
		}(g)
	}
	wg.Wait()
	require.Equal(t, 30, l.Len())
}

func TestChartInsufficientData(t *testing.T) {
	_, ok := Chart(nil)
	require.False(t, ok)
	_, ok = Chart([]Entry{{Time: t0, Mood: Happy}})
	require.False(t, ok)
}

func TestChart(t *testing.T) {
	cs, ok := Chart([]Entry{
		{Time: t0, Mood: Sad},
		{Time: t0.Add(time.Second), Mood: Happy},
		{Time: t0.Add(2 * time.Second), Mood: Sad},
		{Time: t0.Add(3 * time.Second), Mood: Angry},
	})
	require.True(t, ok)
	want := ChartSeries{
		Times:  []string{"09:30:00", "09:30:01", "09:30:02", "09:30:03"},
		Levels: []int{2, 1, 2, 0},
		Ticks:  []string{"Angry", "Happy", "Sad"},
	}
	if diff := cmp.Diff(want, cs); diff != "" {
		t.Errorf("chart mismatch (-want +got):\n%s", diff)
	}
}
