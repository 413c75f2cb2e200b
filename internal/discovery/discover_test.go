package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ids-bioinformatics/juno/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fourLines = "this\nfile\nhas\ncontents"

// makeFiles creates each relative path under root with content and returns the
// resolved root so expected paths match what discovery records.
func makeFiles(t *testing.T, root string, files ...string) string {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(fourLines), 0644))
	}
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return resolved
}

func TestDiscoverFlatDirectory(t *testing.T) {
	root := makeFiles(t, t.TempDir(),
		"sample1_R1.fastq",
		"sample1_R2.fastq.gz",
		"sample2_R1_filt.fq",
		"sample2_R2_filt.fq.gz",
		"sample1.fasta",
		"sample2.fasta",
		"README.md",
	)
	layout := ClassifyLayout(root)

	tests := []struct {
		modality models.Modality
		want     models.Manifest
	}{
		{
			modality: models.ModalityReads,
			want: models.Manifest{
				"sample1": {R1: filepath.Join(root, "sample1_R1.fastq"), R2: filepath.Join(root, "sample1_R2.fastq.gz")},
				"sample2": {R1: filepath.Join(root, "sample2_R1_filt.fq"), R2: filepath.Join(root, "sample2_R2_filt.fq.gz")},
			},
		},
		{
			modality: models.ModalityAssembly,
			want: models.Manifest{
				"sample1": {Assembly: filepath.Join(root, "sample1.fasta")},
				"sample2": {Assembly: filepath.Join(root, "sample2.fasta")},
			},
		},
		{
			modality: models.ModalityBoth,
			want: models.Manifest{
				"sample1": {
					R1:       filepath.Join(root, "sample1_R1.fastq"),
					R2:       filepath.Join(root, "sample1_R2.fastq.gz"),
					Assembly: filepath.Join(root, "sample1.fasta"),
				},
				"sample2": {
					R1:       filepath.Join(root, "sample2_R1_filt.fq"),
					R2:       filepath.Join(root, "sample2_R2_filt.fq.gz"),
					Assembly: filepath.Join(root, "sample2.fasta"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.modality.String(), func(t *testing.T) {
			got, err := Discover(layout, tt.modality, 0)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverStructuredLayout(t *testing.T) {
	root := makeFiles(t, t.TempDir(),
		"clean_fastq/1234_R1.fastq.gz",
		"clean_fastq/1234_R2.fastq.gz",
		"de_novo_assembly_filtered/1234.fasta",
		// files at the root are not scanned for a structured layout
		"9999_R1.fastq",
		"9999_R2.fastq",
	)
	layout := ClassifyLayout(root)
	require.True(t, layout.Structured)

	got, err := Discover(layout, models.ModalityBoth, 0)
	require.NoError(t, err)

	want := models.Manifest{
		"1234": {
			R1:       filepath.Join(root, "clean_fastq", "1234_R1.fastq.gz"),
			R2:       filepath.Join(root, "clean_fastq", "1234_R2.fastq.gz"),
			Assembly: filepath.Join(root, "de_novo_assembly_filtered", "1234.fasta"),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverKeepsIncompleteSamples(t *testing.T) {
	root := makeFiles(t, t.TempDir(),
		"sample1_R1.fastq",
		"sample1_R2.fastq.gz",
		"sample2.fasta",
	)

	got, err := Discover(ClassifyLayout(root), models.ModalityBoth, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"sample1", "sample2"}, got.Names())
	assert.False(t, got["sample1"].HasAssembly())
	assert.False(t, got["sample2"].HasReads())
	for name, s := range got {
		assert.False(t, s.IsEmpty(), "sample %s has no files", name)
	}
}

func TestDiscoverMinLines(t *testing.T) {
	root := makeFiles(t, t.TempDir(), "big_R1.fastq", "big_R2.fastq")
	require.NoError(t, os.WriteFile(filepath.Join(root, "small_R1.fastq"), []byte("a\nb\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "small_R2.fastq"), []byte("a\nb"), 0644))

	tests := []struct {
		minLines     int
		wantSamples  []string
		wantTooShort []string
	}{
		{0, []string{"big", "small"}, nil},
		{2, []string{"big", "small"}, nil},
		{3, []string{"big"}, []string{"small_R1.fastq", "small_R2.fastq"}},
		{4, []string{"big"}, []string{"small_R1.fastq", "small_R2.fastq"}},
		{1000, []string{}, []string{"big_R1.fastq", "big_R2.fastq", "small_R1.fastq", "small_R2.fastq"}},
	}

	for _, tt := range tests {
		got, report, err := DiscoverWithReport(ClassifyLayout(root), models.ModalityReads, tt.minLines)
		require.NoError(t, err)
		assert.Equal(t, tt.wantSamples, got.Names(), "minLines=%d", tt.minLines)
		if tt.wantTooShort == nil {
			assert.Empty(t, report.TooShort, "minLines=%d", tt.minLines)
		} else {
			assert.Equal(t, tt.wantTooShort, report.TooShort, "minLines=%d", tt.minLines)
		}
	}
}

func TestDiscoverAmbiguousNamesReportDuplicates(t *testing.T) {
	root := makeFiles(t, t.TempDir(),
		"1234_S001_PE_R1.fastq.gz",
		"1234_S001_PE_R2.fastq.gz",
	)

	got, report, err := DiscoverWithReport(ClassifyLayout(root), models.ModalityReads, 0)
	require.NoError(t, err)

	require.Contains(t, got, "1234")
	assert.False(t, got["1234"].HasReads(), "both files resolve to R1, so the pair stays incomplete")
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, models.RoleR1, report.Duplicates[0].Role)
	assert.Equal(t, filepath.Join(root, "1234_S001_PE_R2.fastq.gz"), report.Duplicates[0].Kept)
	assert.Contains(t, report.Duplicates[0].String(), "sample 1234")
}

func TestDiscoverReportsIgnoredFiles(t *testing.T) {
	root := makeFiles(t, t.TempDir(),
		"sample1_R1.fastq",
		"sample1_R2.fastq",
		"sample1.fastq",
		"unpaired_R3.fq",
		"notes.txt",
	)
	require.NoError(t, os.Mkdir(filepath.Join(root, "x_R1.fastq"), 0755))

	got, report, err := DiscoverWithReport(ClassifyLayout(root), models.ModalityReads, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"sample1"}, got.Names())
	assert.Equal(t, []string{"sample1.fastq", "unpaired_R3.fq"}, report.Ignored)
	assert.False(t, report.Empty())
}

func TestDiscoverIsIdempotent(t *testing.T) {
	root := makeFiles(t, t.TempDir(),
		"a_R1.fastq", "a_R2.fastq", "a.fasta",
		"b_R1.fq.gz", "b_R2.fq.gz",
	)
	layout := ClassifyLayout(root)

	first, err := Discover(layout, models.ModalityBoth, 0)
	require.NoError(t, err)
	second, err := Discover(layout, models.ModalityBoth, 0)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second discovery differs (-first +second):\n%s", diff)
	}
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	got, report, err := DiscoverWithReport(ClassifyLayout(root), models.ModalityBoth, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, report.Empty())
}

func TestDiscoverMissingDirectory(t *testing.T) {
	layout := models.Layout{Reads: filepath.Join(t.TempDir(), "gone"), Assembly: filepath.Join(t.TempDir(), "gone")}

	_, err := Discover(layout, models.ModalityReads, 0)
	assert.ErrorContains(t, err, "scan reads directory")

	_, err = Discover(layout, models.ModalityAssembly, 0)
	assert.ErrorContains(t, err, "scan assembly directory")
}
