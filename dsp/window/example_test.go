package window_test

import (
	"fmt"

	"github.com/cwbudde/algo-degrade/dsp/window"
)

func ExampleHann() {
	w := window.Hann(5)
	fmt.Printf("%.2f\n", w)
	// Output:
	// [0.00 0.50 1.00 0.50 0.00]
}

func ExampleApply() {
	frame := []float64{1, 1, 1, 1}
	out := make([]float64, len(frame))
	_ = window.Apply(out, frame, window.Hann(4, window.WithPeriodic()))
	fmt.Printf("%.2f\n", out)
	// Output:
	// [0.00 0.50 1.00 0.50]
}
