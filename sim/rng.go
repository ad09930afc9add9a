package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"strings"
)

// === Seed ===

// Seed uniquely identifies a reproducible generation run.
// Two runs with the same Seed and identical configuration
// MUST produce bit-for-bit identical parameters and measurements.
//
// The two words are the state of a PCG generator, matching the
// (hi, lo) stateless seeds used by the benchmark suite, e.g. (0, 8).
type Seed struct {
	Hi uint64
	Lo uint64
}

// NewSeed creates a Seed from its two words.
func NewSeed(hi, lo uint64) Seed {
	return Seed{Hi: hi, Lo: lo}
}

// DefaultSeed is the seed the reference instance was generated with.
var DefaultSeed = NewSeed(0, 8)

// ParseSeed parses "hi,lo" or a single integer (which sets Lo, Hi = 0).
func ParseSeed(s string) (Seed, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	switch len(parts) {
	case 1:
		lo, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return Seed{}, fmt.Errorf("parse seed %q: %w", s, err)
		}
		return NewSeed(0, lo), nil
	case 2:
		hi, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return Seed{}, fmt.Errorf("parse seed %q: %w", s, err)
		}
		lo, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return Seed{}, fmt.Errorf("parse seed %q: %w", s, err)
		}
		return NewSeed(hi, lo), nil
	default:
		return Seed{}, fmt.Errorf("parse seed %q: want \"hi,lo\" or a single integer", s)
	}
}

// String formats the seed as "hi,lo", the form accepted by ParseSeed.
func (s Seed) String() string {
	return fmt.Sprintf("%d,%d", s.Hi, s.Lo)
}

// NewRand returns a fresh generator positioned at the start of the seed's stream.
func (s Seed) NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(s.Hi, s.Lo))
}

// === Subsystem Constants ===

const (
	// SubsystemPrior is the RNG subsystem for parameter draws.
	// Uses the master seed directly so a seed names the parameter draw.
	SubsystemPrior = "prior"

	// SubsystemNoise is the RNG subsystem for measurement noise.
	SubsystemNoise = "noise"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemPrior: uses the master seed directly
//   - For all other subsystems: Hi XOR fnv1a64(subsystemName), Lo unchanged
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed       Seed
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a Seed.
func NewPartitionedRNG(seed Seed) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// SeedFor returns the derived seed of the named subsystem. Pure functions
// that take a Seed (noise.Apply) are handed this value.
func (p *PartitionedRNG) SeedFor(name string) Seed {
	if name == SubsystemPrior {
		return p.seed
	}
	return NewSeed(p.seed.Hi^fnv1a64(name), p.seed.Lo)
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := p.SeedFor(name).NewRand()
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master Seed used to create this PartitionedRNG.
func (p *PartitionedRNG) Seed() Seed {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
