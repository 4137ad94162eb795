package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/raykavin/signalscope/pkg/core"
)

// LoadResult reads an analysis result from a JSON file
func LoadResult(path string) (core.AnalysisResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return core.AnalysisResult{}, err
	}
	defer file.Close()

	result, err := ReadResult(file)
	if err != nil {
		return core.AnalysisResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// ReadResult decodes an analysis result
func ReadResult(r io.Reader) (core.AnalysisResult, error) {
	var result core.AnalysisResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return core.AnalysisResult{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}
