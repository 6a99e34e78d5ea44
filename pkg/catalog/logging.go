package catalog

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/catalog", "building block catalogs")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
