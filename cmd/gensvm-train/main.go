// Command gensvm-train fits a GenSVM model to a dataset file and
// optionally writes the trained model to disk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	gensvm "github.com/ForeverDavid/GenSVM"
)

func main() {
	var (
		dataFile  = flag.String("data", "", "training data file (required)")
		modelFile = flag.String("model", "", "output model file")
		p         = flag.Float64("p", 1.0, "Lp-norm exponent, in [1, 2]")
		lambda    = flag.Float64("lambda", 0.00390625, "regularization strength")
		kappa     = flag.Float64("kappa", 0.0, "Huber hinge transition point")
		epsilon   = flag.Float64("epsilon", 1e-6, "stopping tolerance")
		weights   = flag.Int("weights", gensvm.UnitWeights, "instance weights: 1 unit, 2 group-balanced")
		kernel    = flag.String("kernel", "linear", "kernel kind: linear, rbf, poly, sigmoid")
		gamma     = flag.Float64("gamma", 1.0, "kernel gamma")
		coef      = flag.Float64("coef", 0.0, "kernel coefficient (poly, sigmoid)")
		degree    = flag.Int("degree", 2, "polynomial kernel degree")
		stabilize = flag.Bool("stabilize", false, "use the Cholesky factor of the kernel matrix")
		maxIter   = flag.Int("maxiter", 1_000_000, "iteration cap")
		verbose   = flag.Bool("v", false, "log training progress")
	)
	flag.Parse()
	if *dataFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := gensvm.ReadDataFile(*dataFile)
	if err != nil {
		log.Fatal(err)
	}

	k, err := gensvm.ParseKernel(*kernel, *gamma, *coef, *degree)
	if err != nil {
		log.Fatal(err)
	}
	task := gensvm.NewTask()
	task.P = *p
	task.Lambda = *lambda
	task.Kappa = *kappa
	task.Epsilon = *epsilon
	task.WeightIdx = *weights
	task.Kernel = k
	task.Stabilized = *stabilize

	opts := []gensvm.Option{gensvm.WithMaxIter(*maxIter)}
	if *verbose {
		opts = append(opts, gensvm.WithLogger(log.New(os.Stderr, "gensvm: ", 0)))
	}

	model, res, err := gensvm.Train(data, task, opts...)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s after %d iterations, loss %g\n", res.Status, res.Iterations, res.Loss)
	fmt.Printf("training accuracy: %.2f%%\n", 100.0-model.TrainingError)

	if *modelFile != "" {
		if err := gensvm.WriteModelFile(model, *modelFile); err != nil {
			log.Fatal(err)
		}
	}
}
