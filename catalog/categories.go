package catalog

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// Categories maps package name to its categories
type Categories map[string][]string

// categoryList accepts both scalar and sequence nodes
type categoryList []string

func (l *categoryList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = categoryList{value.Value}
		return nil
	}

	var values []string
	if err := value.Decode(&values); err != nil {
		return err
	}
	*l = values
	return nil
}

// ParseCategories decodes YAML mapping of package name to category (or list of categories)
func ParseCategories(data []byte) (Categories, error) {
	var raw map[string]categoryList
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid category index")
	}

	result := make(Categories, len(raw))
	for name, list := range raw {
		if len(list) > 0 {
			result[name] = list
		}
	}
	return result, nil
}

// LoadCategories reads category index from file, missing file is an empty index
func LoadCategories(path string) (Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Categories{}, nil
		}
		return nil, errors.Wrap(err, "unable to load category index")
	}

	categories, err := ParseCategories(data)
	return categories, errors.Wrapf(err, "error in %s", path)
}
