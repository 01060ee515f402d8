package scoring

// fahrenheit boiling points as the catalog provider delivers them after
// conversion from the Celsius seed data.
func testCatalog() Snapshot {
	s := Snapshot{}
	add := func(name string, typ CompoundType, bpF float64) {
		s.Put(PhysicalRecord{Name: name, Type: typ, BoilingPointF: ptr(bpF)})
	}
	add("THC", TypeCannabinoid, 314.6)
	add("CBD", TypeCannabinoid, 356)
	add("CBG", TypeCannabinoid, 125.6)
	add("CBN", TypeCannabinoid, 365)
	add("THCV", TypeCannabinoid, 428)
	add("Myrcene", TypeTerpene, 334.4)
	add("Limonene", TypeTerpene, 348.8)
	add("Alpha-Pinene", TypeTerpene, 311)
	add("Linalool", TypeTerpene, 388.4)
	add("Caryophyllene", TypeTerpene, 505.4)
	add("Humulene", TypeTerpene, 528.8)
	add("Cannflavin A", TypeFlavonoid, 359.6)
	add("Apigenin", TypeFlavonoid, 352.4)
	add("Quercetin", TypeFlavonoid, 482)
	s.Put(PhysicalRecord{Name: "Cyanidin", Type: TypeFlavonoid})
	return s
}

// flatCatalog gives every listed compound the same boiling point so tests can
// pick a temperature where all of them are fully active.
func flatCatalog(bpF float64, entries map[string]CompoundType) Snapshot {
	s := Snapshot{}
	for name, typ := range entries {
		s.Put(PhysicalRecord{Name: name, Type: typ, BoilingPointF: ptr(bpF)})
	}
	return s
}
