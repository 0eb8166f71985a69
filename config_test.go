package liga

import (
	"strings"
	"testing"
	"time"
)

func TestParseParfileOverridesOnlyGivenKeys(t *testing.T) {
	p := DefaultParams()
	in := strings.NewReader("# a comment\n\ndistfile = dists.txt\ntol_dd = 0.05\nligasize = 25\n")
	if err := p.ParseParfile(in); err != nil {
		t.Fatal(err)
	}
	if p.DistFile != "dists.txt" {
		t.Errorf("DistFile = %q, want dists.txt", p.DistFile)
	}
	if p.TolDD != 0.05 {
		t.Errorf("TolDD = %g, want 0.05", p.TolDD)
	}
	if p.LigaSize != 25 {
		t.Errorf("LigaSize = %d, want 25", p.LigaSize)
	}
	// Untouched keys keep their default.
	if p.Seed != 1 {
		t.Errorf("Seed = %d, want default 1", p.Seed)
	}
	if p.Penalty != "pow2" {
		t.Errorf("Penalty = %q, want default pow2", p.Penalty)
	}
}

func TestParseParfileRejectsUnknownKey(t *testing.T) {
	p := DefaultParams()
	in := strings.NewReader("nosuchparam = 1\n")
	if err := p.ParseParfile(in); err == nil {
		t.Error("expected an error for an unknown parameter key")
	}
}

func TestParseParfileRejectsMissingEquals(t *testing.T) {
	p := DefaultParams()
	in := strings.NewReader("distfile dists.txt\n")
	if err := p.ParseParfile(in); err == nil {
		t.Error("expected an error for a line without '='")
	}
}

func TestParseParfileLatpar(t *testing.T) {
	p := DefaultParams()
	in := strings.NewReader("latpar = 1.0 2.0 3.0 90 90 120\n")
	if err := p.ParseParfile(in); err != nil {
		t.Fatal(err)
	}
	want := [6]float64{1.0, 2.0, 3.0, 90, 90, 120}
	if p.LatPar != want {
		t.Errorf("LatPar = %v, want %v", p.LatPar, want)
	}
}

func TestParseParfileLatparWrongCountErrors(t *testing.T) {
	p := DefaultParams()
	in := strings.NewReader("latpar = 1.0 2.0 3.0\n")
	if err := p.ParseParfile(in); err == nil {
		t.Error("expected an error for latpar with fewer than 6 values")
	}
}

func TestValidateRequiresDistFileOrIniStru(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err == nil {
		t.Error("expected an error when neither distfile nor inistru is set")
	}
	p.DistFile = "dists.txt"
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error once distfile is set: %v", err)
	}
}

func TestValidateRejectsBadOutFmt(t *testing.T) {
	p := DefaultParams()
	p.DistFile = "dists.txt"
	p.OutFmt = "pdb"
	if err := p.Validate(); err == nil {
		t.Error("expected an error for an unrecognised outfmt")
	}
}

func TestValidateRejectsBadPenalty(t *testing.T) {
	p := DefaultParams()
	p.DistFile = "dists.txt"
	p.Penalty = "huber"
	if err := p.Validate(); err == nil {
		t.Error("expected an error for an unrecognised penalty")
	}
}

func TestValidateRejectsNonPositiveTolDD(t *testing.T) {
	p := DefaultParams()
	p.DistFile = "dists.txt"
	p.TolDD = 0
	if err := p.Validate(); err == nil {
		t.Error("expected an error for a non-positive tol_dd")
	}
}

func TestValidateRejectsBadEprobRange(t *testing.T) {
	p := DefaultParams()
	p.DistFile = "dists.txt"
	p.EprobMin = 0.8
	p.EprobMax = 0.2
	if err := p.Validate(); err == nil {
		t.Error("expected an error when eprob_min > eprob_max")
	}
}

func TestValidateCrystalRequiresLatparAndRmax(t *testing.T) {
	p := DefaultParams()
	p.DistFile = "dists.txt"
	p.Crystal = true
	if err := p.Validate(); err == nil {
		t.Error("expected an error for a crystal run with a zero latpar")
	}
	p.LatPar = [6]float64{1, 1, 1, 90, 90, 90}
	p.Rmax = 0
	if err := p.Validate(); err == nil {
		t.Error("expected an error for a crystal run with a non-positive rmax")
	}
	p.Rmax = 5
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error for a fully specified crystal run: %v", err)
	}
}

func TestValidateRejectsNonPositiveLigaSize(t *testing.T) {
	p := DefaultParams()
	p.DistFile = "dists.txt"
	p.LigaSize = 0
	if err := p.Validate(); err == nil {
		t.Error("expected an error for a non-positive ligasize")
	}
}

func TestMaxCPUDurationZeroMeansUnbounded(t *testing.T) {
	p := DefaultParams()
	if got := p.MaxCPUDuration(); got != 0 {
		t.Errorf("MaxCPUDuration() = %v, want 0 for MaxCPUTime <= 0", got)
	}
	p.MaxCPUTime = 2.5
	if got := p.MaxCPUDuration(); got != 2500*time.Millisecond {
		t.Errorf("MaxCPUDuration() = %v, want 2.5s", got)
	}
}

func TestPenaltyKindResolvesConfiguredName(t *testing.T) {
	p := DefaultParams()
	p.Penalty = "fabs"
	if got := p.PenaltyKind(); got != PenaltyFabs {
		t.Errorf("PenaltyKind() = %v, want PenaltyFabs", got)
	}
}
