// Package learn fits regression models to (feature, label) pairs.
//
// It plays the part a machine-learning framework plays for the rest of the
// program: callers describe a pipeline (feature concatenation followed by a
// trainer), fit it once, and receive an immutable Transformer that maps new
// rows to predicted labels. Numerics are built on gonum.
//
// # Session
//
// A Session carries the process-wide seed and logger. It is created once and
// passed to whoever needs to build trainers:
//
//	sess := learn.NewSession(0, logger)
//	sdca, err := sess.SDCA(learn.WithL2Regularization(0.01))
//	pipeline := learn.Concatenate("Features", "Size").Append(sdca)
//	tf, err := pipeline.Fit(ctx, ds)
//	price := tf.Predict(model.PredictionInput{Size: 1300})
//
// # Trainers
//
//   - SDCA: least squares with L2 regularisation, solved by stochastic dual
//     coordinate ascent on standardised features. Produces a LinearModel.
//   - FastTree: gradient-boosted regression trees grown leaf-wise. Produces a
//     TreeEnsembleModel.
//
// Both trainers are deterministic for a given Session seed. Every Fit call
// derives its own random source from the seed, so concurrent fits on the same
// Session do not interfere.
//
// # Limits
//
// Models never clamp or flag inputs outside the training range; extrapolation
// is returned as-is.
package learn
