package preset

import "testing"

// TestRegistryLoadAllDiscoversCompileTimeRecipes verifies load_all publishes
// every statically registered recipe.
func TestRegistryLoadAllDiscoversCompileTimeRecipes(t *testing.T) {
	r := NewRegistry()
	if errs := r.LoadAll(); len(errs) != 0 {
		t.Fatalf("LoadAll() returned errors: %v", errs)
	}
	names := r.Names()
	if len(names) == 0 {
		t.Fatal("expected at least one registered preset")
	}
	found := false
	for _, n := range names {
		if n == "piano" {
			found = true
		}
	}
	if !found {
		t.Error("expected \"piano\" preset to be registered")
	}
}

// TestRegistryLoadAllDiscoversEveryFamily verifies every compile-time
// recipe family registers successfully.
func TestRegistryLoadAllDiscoversEveryFamily(t *testing.T) {
	r := NewRegistry()
	if errs := r.LoadAll(); len(errs) != 0 {
		t.Fatalf("LoadAll() returned errors: %v", errs)
	}
	want := []string{
		"piano", "bass", "cello", "violin", "clarinet", "trumpet", "guitar",
		"snare", "hi_hat", "big_kick", "wood_kick", "drone", "two_freq_drones",
		"laser", "harmonic_swarm", "metallic_rain", "digital_snap",
		"square_fall", "reverse_impact", "fm_bell_cluster", "whale_calls",
		"chorus",
	}
	got := make(map[string]bool, len(r.Names()))
	for _, n := range r.Names() {
		got[n] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("expected preset %q to be registered", name)
		}
	}
}

// TestParamsOfUnknownPreset verifies params_of reports false for a name not
// in the registry.
func TestParamsOfUnknownPreset(t *testing.T) {
	r := NewRegistry()
	r.LoadAll()
	if _, ok := r.ParamsOf("does-not-exist"); ok {
		t.Error("expected ParamsOf to report false for unknown preset")
	}
}

// TestRegistrySoundness verifies params_of(P) is a superset of
// the parameters the recipe declares, and Filter drops anything else.
func TestRegistrySoundness(t *testing.T) {
	r := NewRegistry()
	r.LoadAll()

	names, ok := r.ParamsOf("bass")
	if !ok {
		t.Fatal("expected \"bass\" preset to be registered")
	}
	schema := make(map[string]bool, len(names))
	for _, n := range names {
		schema[n] = true
	}
	if !schema["freq1"] || !schema["duration"] || !schema["intensity"] {
		t.Errorf("bass schema missing expected params: %v", names)
	}

	_, params, _ := r.Recipe("bass")
	filtered := Filter(params, Params{"freq1": 220.0, "bogus_key": "x"})
	if _, ok := filtered["bogus_key"]; ok {
		t.Error("Filter() did not drop unknown parameter")
	}
	if _, ok := filtered["freq1"]; !ok {
		t.Error("Filter() incorrectly dropped a known parameter")
	}
}

// TestDuplicateRegistrationRejected verifies the registry detects and
// rejects a duplicate recipe name rather than letting the later one win
// silently.
func TestDuplicateRegistrationRejected(t *testing.T) {
	saved := compileTimeFactories
	defer func() { compileTimeFactories = saved }()

	compileTimeFactories = map[string]Factory{
		"drone":  func() Recipe { return droneRecipe{} },
		"_alias": func() Recipe { return droneRecipe{} }, // same Name() as "drone"
	}

	r := NewRegistry()
	errs := r.LoadAll()
	if len(errs) == 0 {
		t.Fatal("expected a LoadError for the duplicate recipe name")
	}
	if _, ok := r.ParamsOf("drone"); !ok {
		t.Error("expected the first-registered \"drone\" recipe to still be usable")
	}
}

// TestPlayMelodyPathBuildsSequenceHandle verifies the notes+durations path
// produces a sequence handle.
func TestPlayMelodyPathBuildsSequenceHandle(t *testing.T) {
	h := Play(pianoRecipe{}, Params{
		"notes":     []float64{440.0, 523.25},
		"durations": []float64{0.5, 0.5},
	})
	if h.Sequence() == nil {
		t.Fatal("expected a sequence handle for melody params")
	}
	if len(h.Sequence()) != 2 {
		t.Errorf("len(Sequence()) = %d, want 2", len(h.Sequence()))
	}
	if !h.IsAlive() {
		t.Error("expected freshly built handle to be alive")
	}
}

// TestPlayNonMelodyRecipeIgnoresNotes verifies a recipe with
// SupportsMelody()==false always takes the native build path.
func TestPlayNonMelodyRecipeIgnoresNotes(t *testing.T) {
	h := Play(snareRecipe{}, Params{
		"notes":     []float64{440.0},
		"durations": []float64{0.5},
	})
	if h.Sequence() != nil {
		t.Error("expected snareRecipe to ignore melody params and build a single handle")
	}
	if h.Node() == nil {
		t.Error("expected a single-node handle")
	}
}

// TestHandleIsDoneAfterDuration verifies a single-node handle reports done
// once its envelope has fully rendered.
func TestHandleIsDoneAfterDuration(t *testing.T) {
	h := Play(woodKickRecipe{}, Params{"duration": 0.01})
	node := h.Node()
	if node == nil {
		t.Fatal("expected a single-node handle")
	}
	// woodKick's total envelope is ~0.001+0.01+0.01 = 0.021s; render well past that.
	for i := 0; i < 50; i++ {
		node.RenderStereo(4410, 44100) // 0.1s per call
	}
	if h.IsAlive() {
		t.Error("expected handle to be done after rendering well past its duration")
	}
}
