package testkit

import (
	"fmt"
	"math/rand"
	"strings"

	"tabclass/domain/dataset"
)

// GeneratorConfig configures the synthetic dataset generator
type GeneratorConfig struct {
	Rows         int      `json:"rows"`
	Features     int      `json:"features"`
	PositiveRate float64  `json:"positive_rate"` // binary only
	Separation   float64  `json:"separation"`    // mean shift of positive rows
	Classes      []string `json:"classes"`       // textual when non-empty
	NullRate     float64  `json:"null_rate"`     // applied to feature cells only
	Seed         int64    `json:"seed"`
}

// DefaultBinaryConfig returns a mildly imbalanced, well separated binary dataset
func DefaultBinaryConfig() GeneratorConfig {
	return GeneratorConfig{
		Rows:         200,
		Features:     3,
		PositiveRate: 0.25,
		Separation:   2.0,
		Seed:         42,
	}
}

// DefaultTextualConfig returns a three class text dataset
func DefaultTextualConfig() GeneratorConfig {
	return GeneratorConfig{
		Rows:    120,
		Classes: []string{"ham", "spam", "promo"},
		Seed:    42,
	}
}

// Generator produces seeded synthetic tables
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Binary returns a table of float features followed by an integer 0/1 "Outcome" column
func (g *Generator) Binary() *dataset.Table {
	cols := make([]dataset.Column, 0, g.config.Features+1)
	for f := 0; f < g.config.Features; f++ {
		cols = append(cols, dataset.Column{Name: fmt.Sprintf("x%d", f+1), Kind: dataset.KindFloat})
	}
	cols = append(cols, dataset.Column{Name: "Outcome", Kind: dataset.KindInteger})

	rows := make([]dataset.Row, g.config.Rows)
	for i := range rows {
		positive := g.rng.Float64() < g.config.PositiveRate
		row := make(dataset.Row, 0, len(cols))
		for f := 0; f < g.config.Features; f++ {
			if g.config.NullRate > 0 && g.rng.Float64() < g.config.NullRate {
				row = append(row, dataset.Null())
				continue
			}
			x := g.rng.NormFloat64()
			if positive {
				x += g.config.Separation
			}
			row = append(row, dataset.Float(x))
		}
		label := int64(0)
		if positive {
			label = 1
		}
		row = append(row, dataset.Int(label))
		rows[i] = row
	}
	return MustTable(cols, rows)
}

// Textual returns a (Category, Message) table where each class has its own vocabulary
func (g *Generator) Textual() *dataset.Table {
	cols := []dataset.Column{
		{Name: "Category", Kind: dataset.KindText},
		{Name: "Message", Kind: dataset.KindText},
	}

	rows := make([]dataset.Row, g.config.Rows)
	for i := range rows {
		// Skew towards the first class so balancing has work to do
		idx := 0
		if g.rng.Float64() >= 0.5 {
			idx = g.rng.Intn(len(g.config.Classes))
		}
		class := g.config.Classes[idx]

		words := make([]string, 0, 6)
		for w := 0; w < 6; w++ {
			words = append(words, fmt.Sprintf("%s%d", class, g.rng.Intn(4)))
		}
		rows[i] = dataset.Row{dataset.Text(class), dataset.Text(strings.Join(words, " "))}
	}
	return MustTable(cols, rows)
}
