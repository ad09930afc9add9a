package sim

import (
	"math"
	"math/rand/v2"
	"testing"
)

// === Seed Tests ===

func TestParseSeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Seed
		wantErr bool
	}{
		{"pair", "0,8", NewSeed(0, 8), false},
		{"pair with spaces", " 3 , 4 ", NewSeed(3, 4), false},
		{"single value", "42", NewSeed(0, 42), false},
		{"max uint64", "18446744073709551615,1", NewSeed(math.MaxUint64, 1), false},
		{"negative", "-1", Seed{}, true},
		{"three words", "1,2,3", Seed{}, true},
		{"garbage", "abc", Seed{}, true},
		{"empty", "", Seed{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeed(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSeed(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeed(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeed(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeed_StringRoundTrip(t *testing.T) {
	seed := NewSeed(7, 1234567)
	got, err := ParseSeed(seed.String())
	if err != nil {
		t.Fatal(err)
	}
	if got != seed {
		t.Errorf("ParseSeed(%q) = %v, want %v", seed.String(), got, seed)
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same seed+name produces same sequence
	rng1 := NewPartitionedRNG(DefaultSeed)
	rng2 := NewPartitionedRNG(DefaultSeed)

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemNoise).Float64()
		v2 := rng2.ForSubsystem(SubsystemNoise).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from the prior doesn't affect the noise stream
	rngA := NewPartitionedRNG(DefaultSeed)
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemPrior).NormFloat64()
	}
	aNoiseFirst := rngA.ForSubsystem(SubsystemNoise).Float64()

	fresh := NewPartitionedRNG(DefaultSeed)
	expectedFirst := fresh.ForSubsystem(SubsystemNoise).Float64()

	if aNoiseFirst != expectedFirst {
		t.Errorf("noise first value = %v, want %v (isolation broken)", aNoiseFirst, expectedFirst)
	}
}

func TestPartitionedRNG_PriorUsesMasterSeed(t *testing.T) {
	// BDD: "prior" subsystem uses master seed directly
	seed := NewSeed(0, 8)
	prior := NewPartitionedRNG(seed).ForSubsystem(SubsystemPrior)
	direct := rand.New(rand.NewPCG(0, 8))

	for i := 0; i < 10; i++ {
		got := prior.Float64()
		want := direct.Float64()
		if got != want {
			t.Errorf("Value %d: prior RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_SeedForMatchesForSubsystem(t *testing.T) {
	// BDD: a pure function seeded with SeedFor(name) sees the same stream as ForSubsystem(name)
	p := NewPartitionedRNG(NewSeed(11, 22))
	derived := p.SeedFor(SubsystemNoise).NewRand()
	cached := p.ForSubsystem(SubsystemNoise)

	for i := 0; i < 5; i++ {
		if a, b := derived.Uint64(), cached.Uint64(); a != b {
			t.Errorf("Value %d: SeedFor stream %d, ForSubsystem stream %d", i, a, b)
		}
	}
	if p.SeedFor(SubsystemNoise) == p.Seed() {
		t.Error("noise seed equals master seed; subsystems are not isolated")
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(DefaultSeed)

	rng1 := rng.ForSubsystem(SubsystemPrior)
	rng2 := rng.ForSubsystem(SubsystemPrior)

	if rng1 != rng2 {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	rng := NewPartitionedRNG(DefaultSeed)

	if len(rng.subsystems) != 0 {
		t.Errorf("New PartitionedRNG has %d subsystems, want 0", len(rng.subsystems))
	}

	rng.ForSubsystem(SubsystemPrior)

	if len(rng.subsystems) != 1 {
		t.Errorf("After one ForSubsystem call, have %d subsystems, want 1", len(rng.subsystems))
	}
}

// === fnv1a64 Tests ===

func TestFnv1a64_Collision(t *testing.T) {
	names := []string{SubsystemPrior, SubsystemNoise, "render", ""}

	hashes := make(map[uint64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(DefaultSeed)
	rng.ForSubsystem(SubsystemPrior)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemPrior)
	}
}
