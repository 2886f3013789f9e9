package cmd

import (
	"errors"

	"github.com/corey/kwscan/internal/app"
	"github.com/spf13/pflag"
)

// keywordFlags are the keyword source flags shared by search and verify.
type keywordFlags struct {
	inline []string
	file   string
	set    string
}

func (k *keywordFlags) register(f *pflag.FlagSet) {
	f.StringArrayVarP(&k.inline, "keyword", "k", nil, "Keyword to search for (repeatable)")
	f.StringVarP(&k.file, "file", "f", "", "Read keywords from file, one per line")
	f.StringVar(&k.set, "set", "", "Use a stored keyword set")
}

func (k *keywordFlags) source() app.KeywordSource {
	return app.KeywordSource{Inline: k.inline, File: k.file, Set: k.set}
}

// resolve gathers keywords, opening the store only when --set is given.
func (k *keywordFlags) resolve(root string) ([]string, error) {
	src := k.source()
	if src.Empty() {
		return nil, errors.New("no keywords (use -k, -f or --set)")
	}
	if src.Set == "" {
		return src.Resolve(nil)
	}
	store, err := openStore(root)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return src.Resolve(store)
}
