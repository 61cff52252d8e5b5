// Package gensvm trains multiclass support vector machines by iterative
// majorization.
//
// Classes are encoded as the vertices of a regular simplex in K-1
// dimensions. Training minimizes a regularized, Huber-smoothed hinge loss
// over an augmented weight matrix V by repeatedly replacing the loss with
// a quadratic upper bound and solving the weighted least-squares system
// the bound induces. Non-linear decision boundaries are obtained by
// replacing the feature matrix with a kernel matrix before optimization.
//
// The two entry points are Train, which fits a model for a fixed set of
// hyperparameters, and Predict, which assigns new instances the label of
// the nearest simplex vertex. Everything else (data loading, model I/O,
// the kernel evaluators) supports those two calls.
package gensvm

// Version of the model file format writer.
const Version = "0.1.0"
