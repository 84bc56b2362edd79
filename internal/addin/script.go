package addin

import (
	"bytes"
	"path/filepath"
	"strings"
	"text/template"
)

// QuotePS renders s as a single-quoted PowerShell literal.
func QuotePS(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var scriptFuncs = template.FuncMap{"ps": QuotePS}

var installTmpl = template.Must(template.New("install").Funcs(scriptFuncs).Parse(`$ErrorActionPreference = 'Stop'
$ManifestPath = {{ps .ManifestPath}}

if (-not (Test-Path $ManifestPath)) {
    throw "Manifest file not found at: $ManifestPath"
}

try {
    $DevPath = 'HKCU:\Software\Microsoft\Office\16.0\WEF\Developer'
    $TrustedPath = 'HKCU:\Software\Microsoft\Office\16.0\WEF\TrustedCatalogs\' + {{ps .Name}}
    $WordOptionsPath = 'HKCU:\Software\Microsoft\Office\16.0\Word\Options'
    $AddinKey = 'HKCU:\Software\Microsoft\Office\Word\Addins\' + {{ps .AddinID}}

    Remove-Item -Path $DevPath -Recurse -Force -ErrorAction SilentlyContinue
    Remove-Item -Path $TrustedPath -Recurse -Force -ErrorAction SilentlyContinue

    New-Item -Path $DevPath -Force | Out-Null
    New-Item -Path $TrustedPath -Force | Out-Null
    New-Item -Path $WordOptionsPath -Force | Out-Null
    New-Item -Path $AddinKey -Force | Out-Null

    Set-ItemProperty -Path $DevPath -Name 'UserDevManifests' -Value $ManifestPath -Type String

    Set-ItemProperty -Path $TrustedPath -Name 'Id' -Value {{ps .Name}} -Type String
    Set-ItemProperty -Path $TrustedPath -Name 'Path' -Value $ManifestPath -Type String
    Set-ItemProperty -Path $TrustedPath -Name 'Type' -Value 2 -Type DWord
    Set-ItemProperty -Path $TrustedPath -Name 'Flags' -Value 1 -Type DWord

    Set-ItemProperty -Path $WordOptionsPath -Name 'DeveloperTools' -Value 1 -Type DWord
    Set-ItemProperty -Path $WordOptionsPath -Name 'EnableRibbonCustomization' -Value 1 -Type DWord

    Set-ItemProperty -Path $AddinKey -Name 'Description' -Value {{ps .Description}} -Type String
    Set-ItemProperty -Path $AddinKey -Name 'FriendlyName' -Value {{ps .Description}} -Type String
    Set-ItemProperty -Path $AddinKey -Name 'LoadBehavior' -Value 3 -Type DWord
    Set-ItemProperty -Path $AddinKey -Name 'Manifest' -Value $ManifestPath -Type String

    CheckNetIsolation.exe LoopbackExempt -a -n="Microsoft.Win32WebViewHost_cw5n1h2txyewy"

    $WefPath = "$env:LOCALAPPDATA\Microsoft\Office\16.0\Wef"
    if (Test-Path $WefPath) {
        Remove-Item -Path "$WefPath\*" -Recurse -Force
    }

    RunDll32.exe InetCpl.cpl,ClearMyTracksByProcess 255

    Get-Process 'WINWORD' -ErrorAction SilentlyContinue | Stop-Process -Force
    Start-Sleep -Seconds 2

    Write-Host "Add-in installed successfully at: $ManifestPath"
} catch {
    Write-Error "Installation error: $_"
    exit 1
}
`))

// verifyScript exits 0 when the developer manifest value is registered.
const verifyScript = `$RegistryPath = 'HKCU:\Software\Microsoft\Office\16.0\WEF\Developer'
if (Test-Path $RegistryPath) {
    $manifest = Get-ItemProperty -Path $RegistryPath -Name 'UserDevManifests' -ErrorAction SilentlyContinue
    if ($manifest) {
        Write-Host 'Add-in is installed'
        exit 0
    }
}
Write-Host 'Add-in is not installed'
exit 1`

type scriptData struct {
	ManifestPath string
	Name         string
	AddinID      string
	Description  string
}

// RenderInstallScript returns the PowerShell script that registers the
// manifest at manifestPath under the given catalog name.
func RenderInstallScript(manifestPath, name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(manifestPath, `\`, "/"))
	data := scriptData{
		ManifestPath: manifestPath,
		Name:         name,
		AddinID:      strings.TrimSuffix(base, filepath.Ext(base)),
		Description:  "My Word Add-in",
	}
	var buf bytes.Buffer
	if err := installTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
