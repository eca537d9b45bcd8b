// Command smoketest batch-classifies every .txt document under a directory
// and reports aggregate PIVOT statistics plus cross-pipeline anomalies. It
// exists to run the engine against a large, varied corpus of interview
// transcripts and surface documents the classifier handled badly: a
// worker-pool batch driver with a mutex-guarded Stats accumulator and a
// deterministic post-merge report.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jdkato/prose/v2"

	"github.com/insightseries/pivot-insight/engine"
	"github.com/insightseries/pivot-insight/voice"
)

const (
	maxWorkers   = 4
	expectedArgs = 2
)

// docRatio records one document's utterance/sentence ratio, used to flag
// outliers: a document whose splitter produced far more or fewer
// utterances than an independent sentence count would suggest is a sign
// the splitter or classifier handled it unusually.
type docRatio struct {
	path       string
	utterances int
	sentences  int
	ratio      float64
}

// Stats accumulates results across every worker goroutine behind mu:
// per-worker state is built up goroutine-local in fileState and merged
// once at the end.
type Stats struct {
	mu sync.Mutex

	filesScanned  int
	filesFailed   int
	totalBytes    int64
	utteranceCount int
	insightCount  int
	droppedCount  int
	outlierCount  int
	voiceCounts   map[voice.Voice]int
	docRatios     []docRatio
}

type fileState struct {
	path       string
	size       int64
	failed     bool
	utterances int
	insights   int
	dropped    int
	sentences  int
	voiceCounts map[voice.Voice]int
}

func main() {
	if len(os.Args) != expectedArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s <directory>\n", os.Args[0])
		os.Exit(1)
	}

	dirPath := os.Args[1]
	stats := &Stats{voiceCounts: make(map[voice.Voice]int)}

	var filePaths []string
	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		filePaths = append(filePaths, path)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Found %d documents to classify\n", len(filePaths))
	start := time.Now()

	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, path := range filePaths {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(p string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			processFile(p, stats)
		}(path)
	}

	wg.Wait()

	flagUtteranceOutliers(stats)

	fmt.Fprintf(os.Stderr, "\nCompleted in %s\n\n", time.Since(start).Round(time.Millisecond))
	printStats(stats)
}

// processFile classifies one document and, for non-Japanese smoke
// fixtures only (ASCII-only content, since prose/v2's sentence
// tokenizer targets English), cross-checks the splitter's utterance
// count against an independent sentence count from jdkato/prose/v2.
func processFile(path string, stats *Stats) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
		mergeFileState(&fileState{path: path, failed: true}, stats)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error stat %s: %v\n", path, err)
		mergeFileState(&fileState{path: path, failed: true}, stats)
		return
	}

	fmt.Fprintf(os.Stderr, "START %s (%d bytes)\n", path, info.Size())
	fileStart := time.Now()

	text, err := readAll(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		mergeFileState(&fileState{path: path, size: info.Size(), failed: true}, stats)
		return
	}

	state := &fileState{path: path, size: info.Size(), voiceCounts: make(map[voice.Voice]int)}

	result, err := engine.AnalyzeInterview(context.Background(), text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CLASSIFY_FAIL: %s: %v\n", path, err)
		state.failed = true
		mergeFileState(state, stats)
		return
	}

	state.utterances = result.Stats.UtteranceCount
	state.insights = result.Stats.InsightCount
	state.dropped = result.Stats.DroppedCount
	for _, ins := range result.Items {
		state.voiceCounts[ins.Voice]++
	}

	if isASCII(text) {
		if doc, err := prose.NewDocument(text); err == nil {
			state.sentences = len(doc.Sentences())
		}
	}

	fmt.Fprintf(os.Stderr, "DONE  %s in %s (%d utterances, %d insights)\n",
		filepath.Base(path), time.Since(fileStart).Round(time.Millisecond), state.utterances, state.insights)

	mergeFileState(state, stats)
}

func readAll(f *os.File) (string, error) {
	var sb strings.Builder
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	return sb.String(), sc.Err()
}

func isASCII(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
	}
	return true
}

func mergeFileState(fs *fileState, stats *Stats) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	stats.filesScanned++
	stats.totalBytes += fs.size

	if fs.failed {
		stats.filesFailed++
		return
	}

	stats.utteranceCount += fs.utterances
	stats.insightCount += fs.insights
	stats.droppedCount += fs.dropped

	for v, count := range fs.voiceCounts {
		stats.voiceCounts[v] += count
	}

	if fs.sentences > 0 {
		ratio := float64(fs.utterances) / float64(fs.sentences)
		stats.docRatios = append(stats.docRatios, docRatio{
			path: fs.path, utterances: fs.utterances, sentences: fs.sentences, ratio: ratio,
		})
	}
}

// flagUtteranceOutliers computes the median utterance/sentence ratio across
// all cross-checked documents and flags any document whose ratio exceeds
// 3x the median — a sign the splitter segmented it unusually compared to
// an independent sentence tokenizer.
func flagUtteranceOutliers(stats *Stats) {
	if len(stats.docRatios) == 0 {
		return
	}

	ratios := make([]float64, len(stats.docRatios))
	for i, dr := range stats.docRatios {
		ratios[i] = dr.ratio
	}
	med := computeMedian(ratios)

	for _, dr := range stats.docRatios {
		if med > 0 && dr.ratio > 3*med {
			stats.outlierCount++
			fmt.Fprintf(os.Stderr, "UTTERANCE_OUTLIER: %s: %d utterances / %d sentences (ratio %.2f, median %.2f)\n",
				dr.path, dr.utterances, dr.sentences, dr.ratio, med)
		}
	}
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func printStats(stats *Stats) {
	fmt.Printf("Documents scanned:       %d\n", stats.filesScanned)
	fmt.Printf("Documents failed:        %d\n", stats.filesFailed)
	fmt.Printf("Total bytes:             %d\n", stats.totalBytes)
	fmt.Printf("Utterances split:        %d\n", stats.utteranceCount)
	fmt.Printf("Insights produced:       %d\n", stats.insightCount)
	fmt.Printf("Utterances dropped:      %d\n", stats.droppedCount)
	fmt.Printf("Utterance outliers:      %d\n", stats.outlierCount)
	fmt.Println()

	fmt.Println("Voice distribution:")
	total := stats.insightCount
	printVoiceStats("Pain", voice.Pain, stats.voiceCounts, total)
	printVoiceStats("Insecurity", voice.Insecurity, stats.voiceCounts, total)
	printVoiceStats("Vision", voice.Vision, stats.voiceCounts, total)
	printVoiceStats("Objection", voice.Objection, stats.voiceCounts, total)
	printVoiceStats("Traction", voice.Traction, stats.voiceCounts, total)
}

func printVoiceStats(label string, v voice.Voice, counts map[voice.Voice]int, total int) {
	count := counts[v]
	percentage := 0.0
	if total > 0 {
		percentage = float64(count) / float64(total) * 100
	}
	fmt.Printf("  %-12s %d  (%.1f%%)\n", label+":", count, percentage)
}
