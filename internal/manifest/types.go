package manifest

import "fmt"

// FileName is the manifest's file name inside a project root.
const FileName = "requirements.txt"

// Pin is one package==version line.
type Pin struct {
	Package string
	Version string
}

// String renders the pin as it appears in the manifest.
func (p Pin) String() string {
	return fmt.Sprintf("%s==%s", p.Package, p.Version)
}

// DefaultPins is the fixed dependency set written into every new project,
// one package per example framework plus the ASGI server fastapi needs.
var DefaultPins = []Pin{
	{Package: "fastapi", Version: "0.111.0"},
	{Package: "flask", Version: "3.0.3"},
	{Package: "streamlit", Version: "1.36.0"},
	{Package: "uvicorn", Version: "0.30.1"},
}
