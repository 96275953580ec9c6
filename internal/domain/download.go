package domain

import "fmt"

// DownloadReport tallies a bulk download.
type DownloadReport struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Files     []string `json:"files,omitempty"`
}

func (r *DownloadReport) Empty() bool {
	return r.Total == 0
}

func (r *DownloadReport) Summary() string {
	if r.Failed == 0 {
		return fmt.Sprintf("Downloaded %d barcodes", r.Succeeded)
	}
	return fmt.Sprintf("Done: %d succeeded, %d failed", r.Succeeded, r.Failed)
}
