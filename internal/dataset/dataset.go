/*
PURPOSE:
  Provides the training data for housing-price.
  Builds the built-in sample dataset and validates any dataset before training.

REQUIREMENTS:
  User-specified:
  - Nine fixed (size, price) samples spanning 600-2400 sqft / $100,000-$320,000.
  - Emit an informational log line when loading.

  Implementation-discovered:
  - Two runs must be provably trained on identical data (fingerprint).
  - Predictions outside the training range are reported, so the range is needed.
  - An optional CSV file may replace the built-in data.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (dataset command)
  - Produces: model.Dataset

ERROR HANDLING:
  - Load never fails.
  - Validate returns a model.OpError of kind invalid_dataset naming the bad row.

IMPLEMENTATION RULES:
  - Load returns a fresh slice on every call; callers may not share mutations.
  - Fingerprint hashes the IEEE-754 bit patterns, not formatted strings.

USAGE:
  ds := dataset.Load(logger)
  if err := dataset.Validate(ds); err != nil { ... }

SELF-HEALING INSTRUCTIONS:
  - If fingerprints change unexpectedly, check the sample literal order.

RELATED FILES:
  - internal/dataset/csv.go
  - internal/model/types.go

MAINTENANCE:
  - Update the literal only together with the tests pinning its range.
*/

package dataset

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/daryltucker/housing-price/internal/model"
)

// Load returns the built-in housing dataset.
func Load(logger *slog.Logger) model.Dataset {
	if logger != nil {
		logger.Info("Loading sample training data...")
	}

	return model.Dataset{
		{Size: 600, Price: 100000},
		{Size: 800, Price: 120000},
		{Size: 1000, Price: 150000},
		{Size: 1200, Price: 180000},
		{Size: 1500, Price: 220000},
		{Size: 1800, Price: 250000},
		{Size: 2000, Price: 280000},
		{Size: 2200, Price: 300000},
		{Size: 2400, Price: 320000},
	}
}

// Validate checks that ds is non-empty and every sample has a positive,
// finite size and a finite price.
func Validate(ds model.Dataset) error {
	if len(ds) == 0 {
		return model.NewOpError("dataset.Validate", model.KindInvalidDataset,
			fmt.Errorf("dataset is empty"))
	}

	for i, s := range ds {
		switch {
		case math.IsNaN(s.Size) || math.IsInf(s.Size, 0):
			return model.NewOpError("dataset.Validate", model.KindInvalidDataset,
				fmt.Errorf("row %d: size is not finite", i))
		case s.Size <= 0:
			return model.NewOpError("dataset.Validate", model.KindInvalidDataset,
				fmt.Errorf("row %d: size must be positive, got %v", i, s.Size))
		case math.IsNaN(s.Price) || math.IsInf(s.Price, 0):
			return model.NewOpError("dataset.Validate", model.KindInvalidDataset,
				fmt.Errorf("row %d: price is not finite", i))
		}
	}

	return nil
}

// Fingerprint returns a stable hex digest of the dataset contents and order.
func Fingerprint(ds model.Dataset) string {
	h := xxhash.New()
	var buf [16]byte
	for _, s := range ds {
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(s.Size))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(s.Price))
		_, _ = h.Write(buf[:])
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Bounds describes the extent of a dataset.
type Bounds struct {
	MinSize, MaxSize   float64
	MinPrice, MaxPrice float64
}

// Contains reports whether size lies inside the training size range.
func (b Bounds) Contains(size float64) bool {
	return size >= b.MinSize && size <= b.MaxSize
}

// Range returns the bounds of ds. An empty dataset yields NaN bounds.
func Range(ds model.Dataset) Bounds {
	if len(ds) == 0 {
		nan := math.NaN()
		return Bounds{MinSize: nan, MaxSize: nan, MinPrice: nan, MaxPrice: nan}
	}

	b := Bounds{
		MinSize: ds[0].Size, MaxSize: ds[0].Size,
		MinPrice: ds[0].Price, MaxPrice: ds[0].Price,
	}
	for _, s := range ds[1:] {
		b.MinSize = math.Min(b.MinSize, s.Size)
		b.MaxSize = math.Max(b.MaxSize, s.Size)
		b.MinPrice = math.Min(b.MinPrice, s.Price)
		b.MaxPrice = math.Max(b.MaxPrice, s.Price)
	}
	return b
}
