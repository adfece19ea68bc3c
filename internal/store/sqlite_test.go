package store

import (
	"path/filepath"
	"testing"

	"go1090/internal/aircraft"
)

func TestMetadataCache_PutGet_RoundTrips(t *testing.T) {
	cache, err := OpenMetadataCache(filepath.Join(t.TempDir(), "metadata.db"))
	if err != nil {
		t.Fatalf("OpenMetadataCache failed: %v", err)
	}
	defer cache.Close()

	icaoAddress, err := aircraft.NewICAOAddress("4B17E5")
	if err != nil {
		t.Fatal(err)
	}
	reg, err := aircraft.NewRegistration("PT-ABC")
	if err != nil {
		t.Fatal(err)
	}
	typeDes, err := aircraft.NewTypeDesignator("A320")
	if err != nil {
		t.Fatal(err)
	}
	desc, err := aircraft.NewDescription("L2J")
	if err != nil {
		t.Fatal(err)
	}
	data := aircraft.Data{
		Registration:           reg,
		TypeDesignator:         typeDes,
		Model:                  "Airbus A320",
		Description:            desc,
		WakeTurbulenceCategory: aircraft.Medium,
	}

	if err := cache.Put(icaoAddress, data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := cache.Get(icaoAddress)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cached entry")
	}
	if got != data {
		t.Fatalf("got %+v, want %+v", got, data)
	}
}

func TestMetadataCache_Get_MissingReturnsNotFound(t *testing.T) {
	cache, err := OpenMetadataCache(filepath.Join(t.TempDir(), "metadata.db"))
	if err != nil {
		t.Fatalf("OpenMetadataCache failed: %v", err)
	}
	defer cache.Close()

	icaoAddress, err := aircraft.NewICAOAddress("FFFFFF")
	if err != nil {
		t.Fatal(err)
	}

	_, ok, err := cache.Get(icaoAddress)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatal("expected no cached entry")
	}
}

func TestMetadataCache_Put_OverwritesExistingEntry(t *testing.T) {
	cache, err := OpenMetadataCache(filepath.Join(t.TempDir(), "metadata.db"))
	if err != nil {
		t.Fatalf("OpenMetadataCache failed: %v", err)
	}
	defer cache.Close()

	icaoAddress, err := aircraft.NewICAOAddress("4B17E5")
	if err != nil {
		t.Fatal(err)
	}

	reg, err := aircraft.NewRegistration("PT-ABC")
	if err != nil {
		t.Fatal(err)
	}

	if err := cache.Put(icaoAddress, aircraft.Data{Registration: reg, WakeTurbulenceCategory: aircraft.Light}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(icaoAddress, aircraft.Data{Registration: reg, WakeTurbulenceCategory: aircraft.Heavy}); err != nil {
		t.Fatal(err)
	}

	got, ok, err := cache.Get(icaoAddress)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a cached entry")
	}
	if got.WakeTurbulenceCategory != aircraft.Heavy {
		t.Fatalf("got category %v, want Heavy", got.WakeTurbulenceCategory)
	}
}
