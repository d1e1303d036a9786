package render

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/mandel"
)

// Record is the JSON form of one sample. Coordinates keep their full
// decimal precision as strings.
type Record struct {
	Scan       uint64          `json:"scan"`
	Batch      int             `json:"batch"`
	X          decimal.Decimal `json:"x"`
	Y          decimal.Decimal `json:"y"`
	Iterations uint32          `json:"iterations"`
	InSet      bool            `json:"inSet"`
	Origin     string          `json:"origin"`
}

// JSONLines writes every sample as one JSON object per line.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

var _ mandel.Renderer = (*JSONLines)(nil)

func (j *JSONLines) RenderBatch(b mandel.Batch) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, s := range b.Samples {
		err := j.enc.Encode(Record{
			Scan:       b.Scan,
			Batch:      b.Index,
			X:          s.X,
			Y:          s.Y,
			Iterations: s.Iterations,
			InSet:      s.InSet(),
			Origin:     s.Origin.String(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Tee delivers each batch to every renderer in turn, stopping at the first
// error.
func Tee(renderers ...mandel.Renderer) mandel.Renderer {
	return mandel.RendererFunc(func(b mandel.Batch) error {
		for _, r := range renderers {
			if err := r.RenderBatch(b); err != nil {
				return err
			}
		}
		return nil
	})
}
