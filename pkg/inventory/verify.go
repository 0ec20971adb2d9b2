package inventory

// Report is the outcome of comparing recorded fingerprints with a scan.
// Every file of either side appears in exactly one of the four buckets.
type Report struct {
	Matching []string          // same fingerprint on both sides
	Missing  []string          // recorded but no longer on disk
	New      map[string]string // on disk but not recorded, with current fingerprint
	Changed  map[string]string // on both sides with a different current fingerprint
}

// Passed reports whether the directory matches its recorded state exactly.
func (r Report) Passed() bool {
	return len(r.New) == 0 && len(r.Missing) == 0 && len(r.Changed) == 0
}

// Empty reports whether neither side had any file.
func (r Report) Empty() bool {
	return len(r.Matching) == 0 && r.Passed()
}

// NewFiles returns the names of the new files in sorted order.
func (r Report) NewFiles() []string {
	return Sorted(KeySet(r.New))
}

// ChangedFiles returns the names of the changed files in sorted order.
func (r Report) ChangedFiles() []string {
	return Sorted(KeySet(r.Changed))
}

// Apply returns the fingerprint set that results from accepting the
// scanned state: missing files are dropped, changed and new files take
// their current fingerprint. recorded is not modified.
func (r Report) Apply(recorded map[string]string) map[string]string {
	out := make(map[string]string, len(recorded)+len(r.New))
	for file, hash := range recorded {
		out[file] = hash
	}
	for _, file := range r.Missing {
		delete(out, file)
	}
	for file, hash := range r.Changed {
		out[file] = hash
	}
	for file, hash := range r.New {
		out[file] = hash
	}
	return out
}

// CompareFingerprints partitions the union of recorded and scanned file names.
func CompareFingerprints(recorded, scanned map[string]string) Report {
	diff := DiffSets(KeySet(recorded), KeySet(scanned))

	report := Report{
		Matching: []string{},
		Missing:  Sorted(diff.Removed),
		New:      make(map[string]string, len(diff.Added)),
		Changed:  make(map[string]string),
	}

	for file := range diff.Added {
		report.New[file] = scanned[file]
	}
	for _, file := range Sorted(diff.Common) {
		if recorded[file] == scanned[file] {
			report.Matching = append(report.Matching, file)
		} else {
			report.Changed[file] = scanned[file]
		}
	}

	return report
}

// Verifier re-scans mod directories and compares them with recorded state.
type Verifier struct {
	scanner *Scanner
}

func NewVerifier(scanner *Scanner) *Verifier {
	return &Verifier{scanner: scanner}
}

// Verify scans dir and compares the result with recorded. It returns the
// report and the fresh scan.
func (v *Verifier) Verify(dir string, recorded map[string]string) (Report, Inventory, error) {
	scanned, err := v.scanner.Scan(dir)
	if err != nil {
		return Report{}, nil, err
	}
	return CompareFingerprints(recorded, scanned), scanned, nil
}
