/*
PURPOSE:
  Single-row prediction over a fitted pipeline, plus the currency rendering
  used when predictions are shown to the user.

REQUIREMENTS:
  User-specified:
  - Predict a price from a house size.
  - Show predictions in currency format.
  - Do not validate range or positivity: extrapolation is returned as-is.

  Implementation-discovered:
  - Reports record whether a size lies outside the training range, for
    information only. The prediction itself is never altered.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (compare)
  - Consumes: learn.Transformer, dataset.Bounds

ERROR HANDLING:
  - Predict never fails. Non-finite inputs yield non-finite prices.

IMPLEMENTATION RULES:
  - Engine is immutable and safe for concurrent use.
  - Currency uses golang.org/x/text/message with en-US grouping.

USAGE:
  eng := predict.NewEngine(tf)
  res := eng.Predict(model.PredictionInput{Size: 1300})
  fmt.Println(predict.FormatCurrency(res.PredictedPrice))

SELF-HEALING INSTRUCTIONS:
  - If grouping separators disappear, check the language tag of the printer.

RELATED FILES:
  - internal/learn/pipeline.go
  - internal/dataset/dataset.go

MAINTENANCE:
  - Keep PredictionRecord in sync with the CSV and JSON writers.
*/

package predict

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daryltucker/housing-price/internal/dataset"
	"github.com/daryltucker/housing-price/internal/learn"
	"github.com/daryltucker/housing-price/internal/model"
)

// Engine wraps a fitted pipeline for one-row-at-a-time prediction.
type Engine struct {
	tf *learn.Transformer
}

// NewEngine creates a prediction engine over tf.
func NewEngine(tf *learn.Transformer) *Engine {
	return &Engine{tf: tf}
}

// Predict scores a single input.
func (e *Engine) Predict(in model.PredictionInput) model.PredictionResult {
	return model.PredictionResult{PredictedPrice: e.tf.Predict(in)}
}

// Records predicts every size and marks those outside bounds.
func (e *Engine) Records(sizes []float64, bounds dataset.Bounds) []model.PredictionRecord {
	out := make([]model.PredictionRecord, 0, len(sizes))
	for _, size := range sizes {
		res := e.Predict(model.PredictionInput{Size: size})
		out = append(out, model.PredictionRecord{
			Size:           size,
			PredictedPrice: res.PredictedPrice,
			Extrapolated:   !bounds.Contains(size),
		})
	}
	return out
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as US dollars with two decimals, e.g. $1,234.50.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", -v)
	}
	return "$" + printer.Sprintf("%.2f", v)
}
