package stats

import (
	"fmt"
	"io"
)

// WriteSideFile writes s to w in the assembler's fragment-length side-file
// format: one "key:value" line per figure, in min/Q1/median/Q3/max order.
func WriteSideFile(w io.Writer, s FragmentStats) error {
	lines := [...]string{
		fmt.Sprintf("min:%d\n", s.Min),
		fmt.Sprintf("Q1:%d\n", s.Q1),
		fmt.Sprintf("M:%d\n", s.Median),
		fmt.Sprintf("Q3:%d\n", s.Q3),
		fmt.Sprintf("max:%d\n", s.Max),
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
