// Command gensvm-predict classifies the instances of a dataset file with
// a previously trained model, reporting accuracy when the data carries
// labels. Model files hold linear models; kernel models keep their
// training data in memory and are not round-tripped through disk.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	gensvm "github.com/ForeverDavid/GenSVM"
)

func main() {
	var (
		modelFile = flag.String("model", "", "trained model file (required)")
		dataFile  = flag.String("data", "", "data file to classify (required)")
		outFile   = flag.String("out", "", "write features and predicted labels here")
	)
	flag.Parse()
	if *modelFile == "" || *dataFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	model, err := gensvm.ReadModelFile(*modelFile)
	if err != nil {
		log.Fatal(err)
	}
	data, err := gensvm.ReadDataFile(*dataFile)
	if err != nil {
		log.Fatal(err)
	}

	pred, err := gensvm.Predict(model, nil, data)
	if err != nil {
		log.Fatal(err)
	}

	if data.Y != nil {
		acc, err := gensvm.Accuracy(pred, data.Y)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("accuracy: %.2f%%\n", acc)
	}

	if *outFile != "" {
		if err := writePredictions(*outFile, data, pred); err != nil {
			log.Fatal(err)
		}
	}
}

// writePredictions writes one line per instance: the feature values
// followed by the predicted label.
func writePredictions(path string, data *gensvm.Dataset, pred []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for i := 0; i < data.N; i++ {
		for j := 1; j <= data.M; j++ {
			fmt.Fprintf(bw, "%f ", data.Z.At(i, j))
		}
		fmt.Fprintf(bw, "%d\n", pred[i])
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
