package pivot

import "github.com/insightseries/pivot-insight/voice"

// PriorityBucket classifies a process label's urgency for period summaries
// (§4.10). Buckets are disjoint; first match wins in Urgent, QuickWin,
// Watch order.
type PriorityBucket int

const (
	Unclassified PriorityBucket = iota
	Urgent
	QuickWin
	Watch
)

func (b PriorityBucket) String() string {
	switch b {
	case Urgent:
		return "urgent"
	case QuickWin:
		return "quick_win"
	case Watch:
		return "watch"
	default:
		return "unclassified"
	}
}

// priorityThresholds are the §4.10 bucket thresholds, read as "at least N
// insights of this voice targeting the process".
const (
	urgentPainMin       = 2
	urgentInsecurityMin = 1
	quickWinVisionMin   = 2
	quickWinTractionMin = 1
	watchObjectionMin   = 2
)

// ClassifyProcess applies the §4.10 priority matrix to one process's
// per-voice insight counts.
func ClassifyProcess(counts map[voice.Voice]int) PriorityBucket {
	switch {
	case counts[voice.Pain] >= urgentPainMin && counts[voice.Insecurity] >= urgentInsecurityMin:
		return Urgent
	case counts[voice.Vision] >= quickWinVisionMin && counts[voice.Traction] >= quickWinTractionMin:
		return QuickWin
	case counts[voice.Objection] >= watchObjectionMin:
		return Watch
	default:
		return Unclassified
	}
}

// PriorityMatrix classifies every process label in byProcess, grouping
// process labels by bucket. Unclassified labels are omitted.
func PriorityMatrix(byProcess map[string]map[voice.Voice]int) map[PriorityBucket][]string {
	out := map[PriorityBucket][]string{}
	for process, counts := range byProcess {
		bucket := ClassifyProcess(counts)
		if bucket == Unclassified {
			continue
		}
		out[bucket] = append(out[bucket], process)
	}
	return out
}

// TopByVoice returns the first n items of the given voice, in the result's
// existing (weighted-confidence descending) order. n <= 0 returns all of
// them.
func (r ClassificationResult) TopByVoice(v voice.Voice, n int) []PIVOTInsight {
	items := r.ByVoice[v]
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}

// Urgent returns every item whose target process falls in the §4.10
// urgent bucket.
func (r ClassificationResult) Urgent() []PIVOTInsight {
	urgentProcesses := make(map[string]bool)
	for process, counts := range r.ByProcess {
		if ClassifyProcess(counts) == Urgent {
			urgentProcesses[process] = true
		}
	}
	if len(urgentProcesses) == 0 {
		return nil
	}

	var out []PIVOTInsight
	for _, item := range r.Items {
		if urgentProcesses[item.TargetLayers.Process] {
			out = append(out, item)
		}
	}
	return out
}
