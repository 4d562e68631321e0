// Command ctxinspect builds the active context for a JSON-LD document or a
// bare @context value and prints the resulting term table.
//
// Usage:
//
//	ctxinspect -base http://example.org/ document.jsonld
//	ctxinspect -base http://example.org/ http://example.org/document.jsonld
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ld-core/jsonld-context/ld"
)

func main() {
	base := flag.String("base", "", "base IRI to resolve relative IRIs against")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ctxinspect [-base IRI] <file-or-url>")
		os.Exit(2)
	}

	loader := ld.NewDefaultRemoteContextLoader(nil)
	doc, err := loader.LoadContext(flag.Arg(0))
	if err != nil {
		log.Fatalf("loading document: %v", err)
	}

	localContext, err := extractContext(doc)
	if err != nil {
		log.Fatalf("reading @context: %v", err)
	}

	options := ld.NewContextOptions(*base)
	options.DocumentLoader = loader

	active := ld.NewActiveContext(options)
	_, active, err = active.Process(localContext, ld.NewRemoteContexts())
	if err != nil {
		log.Fatalf("processing context: %v", err)
	}

	printTerms(active)
}

// extractContext accepts either a bare context value (the typical shape of
// a context document fetched on its own) or a full JSON-LD document, in
// which case its top-level @context entry is used.
func extractContext(doc interface{}) (interface{}, error) {
	obj, isObject := doc.(map[string]interface{})
	if !isObject {
		return doc, nil
	}
	if ctx, hasContext := obj["@context"]; hasContext {
		return ctx, nil
	}
	return obj, nil
}

func printTerms(active *ld.ActiveContext) {
	if active.BaseIRI != nil {
		fmt.Printf("@base:  %s\n", *active.BaseIRI)
	}
	if active.VocabularyMapping != nil {
		fmt.Printf("@vocab: %s\n", *active.VocabularyMapping)
	}
	if active.DefaultLanguage != nil {
		fmt.Printf("@language: %s\n", *active.DefaultLanguage)
	}

	for term, def := range active.Terms {
		entry := map[string]interface{}{"iriMapping": def.IRIMapping}
		if def.Reverse {
			entry["reverse"] = true
		}
		if def.TypeMapping != nil {
			entry["typeMapping"] = *def.TypeMapping
		}
		if def.ContainerMapping != nil {
			entry["containerMapping"] = *def.ContainerMapping
		}
		if def.LanguageMapping != nil {
			entry["languageMapping"] = *def.LanguageMapping
		}

		encoded, err := json.Marshal(entry)
		if err != nil {
			log.Fatalf("encoding term %q: %v", term, err)
		}
		fmt.Printf("%s: %s\n", term, encoded)
	}
}
