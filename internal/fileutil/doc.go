// Package fileutil lists the candidate input files of a role directory and
// implements the minimum-line filter applied to every sequencing file.
//
// # Scanning
//
// ScanDirectory lists the regular files directly inside a directory. Unlike a
// recursive walk it never descends into subdirectories: sample files always
// live directly in the reads or assembly directory. Symlinks are followed,
// which matters on clusters where raw data is linked in from shared storage.
//
//	result, err := fileutil.ScanDirectory("/data/run42", fileutil.ScanOptions{
//	    Suffixes: []string{".fastq", ".fastq.gz", ".fq", ".fq.gz"},
//	    MinLines: 4,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, path := range result.Files {
//	    fmt.Println(path)
//	}
//
// Returned paths are absolute and symlink-free, sorted for deterministic
// output. Non-fatal errors (for example a dangling symlink) are collected in
// ScanResult.Errors and the scan continues.
//
// # Minimum lines
//
// HasMinLines counts lines until the threshold is reached, so large FASTQ
// files are never read in full. Gzip input is decompressed on the fly with
// github.com/klauspost/compress/gzip; a truncated or corrupt archive counts as
// too short rather than as an error, so one bad upload does not abort the
// whole discovery.
package fileutil
