package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/daryltucker/housing-price/internal/model"
)

// LoadCSV reads a dataset from a CSV file with a "size,price" header.
// The result is validated before it is returned.
func LoadCSV(path string, logger *slog.Logger) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NewOpError("dataset.LoadCSV", model.KindInvalidDataset,
			fmt.Errorf("failed to open dataset: %w", err))
	}
	defer f.Close()

	if logger != nil {
		logger.Info("Loading training data from file...", "path", path)
	}

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV parses CSV rows from r. Columns are located by header name so
// "price,size" works as well as "size,price".
func ReadCSV(r io.Reader) (model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.NewOpError("dataset.ReadCSV", model.KindInvalidDataset,
				errors.New("missing header"))
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	sizeCol, priceCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "size":
			sizeCol = i
		case "price", "label":
			priceCol = i
		}
	}
	if sizeCol < 0 || priceCol < 0 {
		return nil, model.NewOpError("dataset.ReadCSV", model.KindInvalidDataset,
			fmt.Errorf("header must name size and price columns, got %v", header))
	}

	var ds model.Dataset
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		size, err := strconv.ParseFloat(strings.TrimSpace(record[sizeCol]), 64)
		if err != nil {
			return nil, model.NewOpError("dataset.ReadCSV", model.KindInvalidDataset,
				fmt.Errorf("invalid size at line %d: %w", line, err))
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[priceCol]), 64)
		if err != nil {
			return nil, model.NewOpError("dataset.ReadCSV", model.KindInvalidDataset,
				fmt.Errorf("invalid price at line %d: %w", line, err))
		}

		ds = append(ds, model.Sample{Size: size, Price: price})
	}

	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}
