package learn_test

import (
	"context"
	"fmt"

	"github.com/daryltucker/housing-price/internal/dataset"
	"github.com/daryltucker/housing-price/internal/learn"
	"github.com/daryltucker/housing-price/internal/model"
)

func ExamplePipeline_Fit() {
	sess := learn.NewSession(0, nil)
	sdca, err := sess.SDCA()
	if err != nil {
		panic(err)
	}

	tf, err := learn.Concatenate("Features", "Size").Append(sdca).Fit(context.Background(), dataset.Load(nil))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.0f\n", tf.Predict(model.PredictionInput{Size: 1300}))
	// Output: 188611
}
