// Package packager writes a metadata record and a tab-separated results
// file into a deflate-compressed archive, uploads it, and mints a
// presigned download URL.
package packager

import (
	"archive/zip"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"webgwas/domain/gwas"
	"webgwas/internal/errors"
	"webgwas/internal/igwas"
	"webgwas/ports"
)

// urlExpiry is the presigned GET URL lifetime.
const urlExpiry = 3600 * time.Second

// Packager assembles and ships one request's output archive.
type Packager struct {
	store      ports.ObjectStore
	scratchDir string
	keyPrefix  string
	dryRun     bool
}

// New builds a Packager writing scratch files under scratchDir and
// uploading archives under keyPrefix.
func New(store ports.ObjectStore, scratchDir, keyPrefix string, dryRun bool) *Packager {
	return &Packager{store: store, scratchDir: scratchDir, keyPrefix: keyPrefix, dryRun: dryRun}
}

// Package writes results.tsv + metadata.txt into a zip archive, uploads it
// (unless dryRun), and returns the presigned URL (empty in dry-run mode).
// The local archive and TSV are removed on success.
func (p *Packager) Package(ctx context.Context, meta gwas.RequestMetadata, rows []igwas.Row) (string, error) {
	if err := os.MkdirAll(p.scratchDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating scratch directory")
	}

	tsvPath := filepath.Join(p.scratchDir, meta.RequestID.String()+".tsv")
	if err := writeTSV(tsvPath, rows); err != nil {
		return "", errors.Wrap(err, "writing results.tsv")
	}
	defer os.Remove(tsvPath)

	zipPath := filepath.Join(p.scratchDir, meta.RequestID.String()+".zip")
	if err := createArchive(zipPath, tsvPath, meta); err != nil {
		return "", errors.Wrap(err, "creating output archive")
	}
	defer os.Remove(zipPath)

	if p.dryRun {
		return "", nil
	}

	key := fmt.Sprintf("%s/%s.zip", p.keyPrefix, meta.RequestID.String())
	if err := p.store.Upload(ctx, key, zipPath); err != nil {
		return "", err
	}
	url, err := p.store.PresignGet(ctx, key, urlExpiry)
	if err != nil {
		return "", err
	}
	return url, nil
}

func writeTSV(path string, rows []igwas.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "variant_id\tbeta\tstd_error\tt_stat\tneg_log_p\tsample_size"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(f, "%s\t%s\t%s\t%s\t%s\t%d\n",
			row.VariantID,
			formatFloat(row.Beta), formatFloat(row.StdError), formatFloat(row.TStat), formatFloat(negLog10P(row.PValue)),
			row.SampleSize,
		); err != nil {
			return err
		}
	}
	return nil
}

// negLog10P converts a two-sided p-value into the -log10(p) scale the
// output TSV reports, which stays finite-precision-friendly near p=0.
func negLog10P(p float64) float64 {
	return -math.Log10(p)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// createMetadata renders the small text record written as metadata.txt.
func createMetadata(meta gwas.RequestMetadata) string {
	return fmt.Sprintf(
		"request_id: %s\nphenotype_definition: %s\ncohort: %s\nfeature_sample_count: %d\n",
		meta.RequestID.String(), meta.PhenotypeDefinition, meta.CohortName, meta.FeatureSampleCount,
	)
}

func createArchive(zipPath, tsvPath string, meta gwas.RequestMetadata) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := zip.NewWriter(out)
	defer w.Close()

	if err := addFileToZip(w, "results.tsv", tsvPath); err != nil {
		return err
	}
	if err := addBytesToZip(w, "metadata.txt", []byte(createMetadata(meta))); err != nil {
		return err
	}
	return nil
}

func addFileToZip(w *zip.Writer, name, sourcePath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}
	return addBytesToZip(w, name, data)
}

func addBytesToZip(w *zip.Writer, name string, data []byte) error {
	header := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	header.SetMode(0o644)
	writer, err := w.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = writer.Write(data)
	return err
}
