package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Episode pairs one transcript file with its metadata sidecar.
type Episode struct {
	// TranscriptPath is the UTF-8 transcript text file.
	TranscriptPath string
	// SidecarPath is the metadata file sharing the transcript's base name.
	SidecarPath string
}

// Name returns the shared base name, used in logs before metadata exists.
func (e Episode) Name() string {
	base := filepath.Base(e.TranscriptPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DiscoverEpisodes pairs every "<base>.txt" transcript in dir with its
// "<base>.info" sidecar. Transcripts without a sidecar are returned with
// an empty SidecarPath so the runner can reject them with a reason instead
// of silently dropping them. The result is sorted by transcript path for
// deterministic processing order.
func DiscoverEpisodes(dir string) ([]Episode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript directory %s: %w", dir, err)
	}

	var episodes []Episode
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".txt")
		ep := Episode{TranscriptPath: filepath.Join(dir, entry.Name())}
		sidecar := filepath.Join(dir, base+".info")
		if _, err := os.Stat(sidecar); err == nil {
			ep.SidecarPath = sidecar
		}
		episodes = append(episodes, ep)
	}

	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].TranscriptPath < episodes[j].TranscriptPath
	})
	return episodes, nil
}
