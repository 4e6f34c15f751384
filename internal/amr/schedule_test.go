package amr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchedule_Sequence(t *testing.T) {
	var got []Step
	for iter := 0; iter < 10; iter++ {
		got = append(got, Schedule(iter, 2, 1))
	}
	want := []Step{
		{Active: 0, Activated: true, Advance: true},
		{Active: 0, Activated: false, Advance: false},
		{Active: 1, Activated: true, Advance: true},
		{Active: 1, Activated: false, Advance: false},
		{Active: 2, Activated: true, Advance: true},
		{Active: 2, Activated: false, Advance: false},
		{Active: 3, Activated: true, Advance: true},
		{Active: 3, Activated: false, Advance: false},
		{Active: 0, Activated: true, Advance: true},
		{Active: 0, Activated: false, Advance: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Schedule mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedule_Properties(t *testing.T) {
	for period := 1; period <= 7; period++ {
		for duration := 1; duration <= period; duration++ {
			advances := 0
			for iter := 0; iter < 12*period; iter++ {
				st := Schedule(iter, period, duration)
				if st != Schedule(iter+4*period, period, duration) {
					t.Fatalf("period=%d duration=%d: step %d not periodic in 4*period", period, duration, iter)
				}
				if st.Active < 0 || st.Active >= NumPatches {
					t.Fatalf("active patch %d out of range", st.Active)
				}
				if st.Activated != (iter%period == 0) {
					t.Fatalf("iter %d: Activated = %v", iter, st.Activated)
				}
				if st.Activated && !st.Advance {
					t.Fatalf("iter %d: activated refinement not advanced", iter)
				}
				if st.Advance {
					advances++
				}
				// Every window of period consecutive iterations advances exactly duration times.
				if iter+1 >= period {
					n := 0
					for k := iter + 1 - period; k <= iter; k++ {
						if Schedule(k, period, duration).Advance {
							n++
						}
					}
					if n != duration {
						t.Fatalf("period=%d duration=%d: window ending %d advanced %d times", period, duration, iter, n)
					}
				}
			}
			if want := 12 * duration; advances != want {
				t.Errorf("period=%d duration=%d: %d advances, want %d", period, duration, advances, want)
			}
		}
	}
}

func TestSchedule_DurationEqualsPeriod(t *testing.T) {
	for iter := 0; iter < 40; iter++ {
		if !Schedule(iter, 5, 5).Advance {
			t.Fatalf("iter %d: refinement dormant with duration == period", iter)
		}
	}
}
