package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/taxops/gstledger/src/models"
	"gopkg.in/yaml.v3"
)

// batchManifest is the YAML shape accepted by --manifest:
//
//	invoices:
//	  - id: INV-2025-001
//	    images:
//	      - scans/inv-001/page1.png
//	      - scans/inv-001/page2.png
type batchManifest struct {
	Invoices []models.BatchJob `yaml:"invoices"`
}

func loadJobs() ([]models.BatchJob, error) {
	switch {
	case manifestFlag != "" && dirFlag != "":
		return nil, fmt.Errorf("--manifest and --dir are mutually exclusive")
	case manifestFlag != "":
		return loadManifest(manifestFlag)
	case dirFlag != "":
		return jobsFromDir(dirFlag)
	default:
		return nil, fmt.Errorf("either --manifest or --dir is required")
	}
}

func loadManifest(path string) ([]models.BatchJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m batchManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Invoices) == 0 {
		return nil, fmt.Errorf("manifest %s lists no documents", path)
	}

	base := filepath.Dir(path)
	for i := range m.Invoices {
		job := &m.Invoices[i]
		if job.InvoiceID == "" {
			job.InvoiceID = fmt.Sprintf("document-%d", i+1)
		}
		if len(job.ImagePaths) == 0 {
			return nil, fmt.Errorf("manifest entry %d (%s) lists no images", i+1, job.InvoiceID)
		}
		// Relative image paths are resolved against the manifest's directory,
		// not the working directory, so manifests stay portable.
		for j, p := range job.ImagePaths {
			if !filepath.IsAbs(p) {
				job.ImagePaths[j] = filepath.Join(base, p)
			}
		}
	}
	return m.Invoices, nil
}

// jobsFromDir treats every subdirectory of root as one document whose pages
// are the non-sidecar files inside it, in name order.
func jobsFromDir(root string) ([]models.BatchJob, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading batch directory: %w", err)
	}

	var jobs []models.BatchJob
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(root, entry.Name())
		pages, err := os.ReadDir(sub)
		if err != nil {
			return nil, fmt.Errorf("reading document directory %s: %w", sub, err)
		}

		var paths []string
		for _, page := range pages {
			if page.IsDir() || strings.HasSuffix(page.Name(), ".txt") {
				continue
			}
			paths = append(paths, filepath.Join(sub, page.Name()))
		}
		if len(paths) == 0 {
			continue
		}
		sort.Strings(paths)
		jobs = append(jobs, models.BatchJob{InvoiceID: entry.Name(), ImagePaths: paths})
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("no documents found under %s", root)
	}
	return jobs, nil
}
