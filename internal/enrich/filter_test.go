package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewscout/enrich-cli/internal/model"
)

func TestSplitComplete(t *testing.T) {
	records := []model.BusinessRecord{
		{Title: "Both", Phone: "+31201234567", Email: "info@both.nl"},
		{Title: "PhoneOnly", Phone: "+31201234567"},
		{Title: "EmailOnly", Email: "info@emailonly.nl"},
		{Title: "Neither"},
		// Website alone does not make a record complete.
		{Title: "WebsiteOnly", Website: "https://websiteonly.nl"},
	}

	complete, pending := SplitComplete(records)

	assert.Len(t, complete, 1)
	assert.Equal(t, "Both", complete[0].Title)
	assert.Len(t, pending, 4)
}

func TestSplitComplete_Empty(t *testing.T) {
	complete, pending := SplitComplete(nil)
	assert.Empty(t, complete)
	assert.Empty(t, pending)
}
