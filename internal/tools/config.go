package tools

import (
	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zenv"
)

type EnvConfig struct {
	SPREADSHEET_CELL_LIMIT    int
	SPREADSHEET_SEARCH_LIMIT  int
	SPREADSHEET_REMOTE_TARGET string
}

var configSchema = z.Struct(z.Shape{
	"SPREADSHEET_CELL_LIMIT":    z.Int().GT(0).Default(5000),
	"SPREADSHEET_SEARCH_LIMIT":  z.Int().GT(0).Default(100),
	"SPREADSHEET_REMOTE_TARGET": z.String().Default(""),
})

func LoadConfig() (EnvConfig, z.ZogIssueMap) {
	config := EnvConfig{}
	issues := configSchema.Parse(zenv.NewDataProvider(), &config)
	return config, issues
}
