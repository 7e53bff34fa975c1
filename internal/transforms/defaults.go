package transforms

// Catalog returns a fresh instance of every built-in pass in priority order.
func Catalog() []Pass {
	return []Pass{
		metadataBackfill{},
		fontSyntax{},
		classCleanup{},
		vectorFlatten{},
		vectorConsolidate{},
		placeholderFills{},
		positioning{},
		cssVariables{},
		utilityOptimize{},
		propExtraction{},
	}
}

func init() {
	for _, p := range Catalog() {
		Register(p)
	}
}
