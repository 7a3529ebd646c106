package ui

// Verbosity selects which per-task lines are printed. Failures are
// printed at every level.
type Verbosity int

const (
	Quiet Verbosity = iota
	OnlyFiles
	OnlyDirs
	Verbose
)

func (v Verbosity) String() string {
	switch v {
	case Quiet:
		return "quiet"
	case OnlyFiles:
		return "only-files"
	case OnlyDirs:
		return "only-dirs"
	case Verbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ShowFiles reports whether copied files are listed.
func (v Verbosity) ShowFiles() bool { return v == Verbose || v == OnlyFiles }

// ShowDirs reports whether created directories are listed.
func (v Verbosity) ShowDirs() bool { return v == Verbose || v == OnlyDirs }

// ResolveVerbosity combines the verbosity flags. --verbose wins over the
// --only-* flags, which is reported as a warning. A dry run with no
// verbosity flag lists everything, since listing is its whole output.
func ResolveVerbosity(verbose, onlyFiles, onlyDirs, dryRun bool) (Verbosity, string) {
	switch {
	case verbose && (onlyFiles || onlyDirs):
		return Verbose, "--verbose overrides --only-files and --only-dirs"
	case verbose, onlyFiles && onlyDirs:
		return Verbose, ""
	case onlyFiles:
		return OnlyFiles, ""
	case onlyDirs:
		return OnlyDirs, ""
	case dryRun:
		return Verbose, ""
	default:
		return Quiet, ""
	}
}
