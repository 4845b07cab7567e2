/*
 * config_test.go, part of govasp.
 *
 * Copyright 2026 Raul Mera <rmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaults(Te *testing.T) {
	Te.Setenv(EnvPotentialPath, "/opt/vasp/pot")
	cfg, err := Load(Te.TempDir())
	require.NoError(Te, err)
	want := &Config{
		AutoSave:        true,
		PotentialRoot:   "/opt/vasp/pot",
		PotentialType:   "potpaw_PBE",
		PotentialFile:   "POTCAR",
		JobScript:       "job.slurm",
		JobTemplate:     "default.job",
		DirectiveMarker: "#SBATCH",
		LogLevel:        "info",
	}
	assert.Equal(Te, want, cfg)
	assert.Equal(Te, want, Default())
}

func TestFile(Te *testing.T) {
	root := Te.TempDir()
	yaml := "input: inputs\noutput: /tmp/out\nauto_save: false\npotential_type: potpaw_LDA\n"
	require.NoError(Te, os.WriteFile(filepath.Join(root, FileBase+".yaml"), []byte(yaml), 0644))
	cfg, err := Load(root)
	require.NoError(Te, err)
	assert.Equal(Te, "inputs", cfg.Input)
	assert.Equal(Te, "/tmp/out", cfg.Output)
	assert.False(Te, cfg.AutoSave)
	assert.Equal(Te, "potpaw_LDA", cfg.PotentialType)
	assert.Equal(Te, "POTCAR", cfg.PotentialFile)

	toml := filepath.Join(Te.TempDir(), "other.toml")
	require.NoError(Te, os.WriteFile(toml, []byte("job_script = \"run.sh\"\n"), 0644))
	cfg, err = Load(root, toml)
	require.NoError(Te, err)
	assert.Equal(Te, "run.sh", cfg.JobScript)
	assert.Equal(Te, "", cfg.Input, "an explicit file replaces the one in root")

	_, err = Load(root, filepath.Join(root, "missing.yaml"))
	assert.Error(Te, err)
}

func TestEnv(Te *testing.T) {
	root := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(root, FileBase+".yaml"), []byte("potential_type: potpaw_LDA\n"), 0644))
	Te.Setenv("VASPY_POTENTIAL_TYPE", "potpaw_GGA")
	Te.Setenv("VASPY_AUTO_SAVE", "false")
	Te.Setenv("VASPY_POTENTIAL_ROOT", "/srv/pot")
	cfg, err := Load(root)
	require.NoError(Te, err)
	assert.Equal(Te, "potpaw_GGA", cfg.PotentialType)
	assert.False(Te, cfg.AutoSave)
	assert.Equal(Te, "/srv/pot", cfg.PotentialRoot)
}

func TestValidate(Te *testing.T) {
	cfg := Default()
	require.NoError(Te, cfg.Validate())
	cfg.PotentialType = ""
	cfg.DirectiveMarker = "SBATCH"
	cfg.LogLevel = "chatty"
	err := cfg.Validate()
	assert.Len(Te, multierr.Errors(err), 3)

	Te.Setenv("VASPY_LOG_LEVEL", "chatty")
	_, err = Load(Te.TempDir())
	assert.Error(Te, err)
}

func TestApply(Te *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	assert.NoError(Te, cfg.Apply())
	cfg.LogLevel = "info"
	assert.NoError(Te, cfg.Apply())
}
