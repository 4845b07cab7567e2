/*
 * slurm_test.go, part of govasp.
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

package slurm

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `#!/bin/bash
# a comment
#SBATCH --job-name=relax
#SBATCH   --time 12:00:00
#SBATCH -N 2
#SBATCH --exclusive

#SBATCH --partition=genoa
module load vasp/6.4
export OMP_NUM_THREADS=1
# body comment
srun vasp_std
`

func TestSkeleton(Te *testing.T) {
	S, err := Seed(filepath.Join(Te.TempDir(), FileName), nil, "", "")
	require.NoError(Te, err)
	assert.Equal(Te, "#!/bin/bash\n", S.String())
	S.SetDirective("job-name", "x")
	assert.Equal(Te, "#!/bin/bash\n#SBATCH --job-name=x\n", S.String())
}

func TestParse(Te *testing.T) {
	S := Parse(script, "")
	assert.Equal(Te, script, S.String(), "untouched scripts are reproduced verbatim")
	assert.Equal(Te, []Directive{
		{Name: "job-name", Value: "relax"},
		{Name: "time", Value: "12:00:00"},
		{Name: "exclusive", Flag: true},
		{Name: "partition", Value: "genoa"},
	}, S.Directives())
	v, ok := S.Directive("time")
	assert.True(Te, ok)
	assert.Equal(Te, "12:00:00", v)
	_, ok = S.Directive("N")
	assert.False(Te, ok)
	assert.Equal(Te, []string{"module load vasp/6.4", "export OMP_NUM_THREADS=1", "# body comment", "srun vasp_std"}, S.Body())
}

func TestSetDirective(Te *testing.T) {
	S := Parse(script, "")
	S.SetDirective("time", "48:00:00")
	S.SetDirective("nodes", "4")
	S.SetFlag("requeue")
	assert.True(Te, S.RemoveDirective("exclusive"))
	assert.False(Te, S.RemoveDirective("exclusive"))
	want := `#!/bin/bash
# a comment
#SBATCH --job-name=relax
#SBATCH --time=48:00:00
#SBATCH -N 2

#SBATCH --partition=genoa
#SBATCH --nodes=4
#SBATCH --requeue
module load vasp/6.4
export OMP_NUM_THREADS=1
# body comment
srun vasp_std
`
	assert.Equal(Te, want, S.String())
}

func TestNoShebang(Te *testing.T) {
	S := Parse("# just a comment\necho hi\n", "")
	S.SetDirective("ntasks", "8")
	assert.Equal(Te, "#SBATCH --ntasks=8\n# just a comment\necho hi\n", S.String())
}

func TestDuplicates(Te *testing.T) {
	S := Parse("#!/bin/bash\n#SBATCH --time=1:00:00\n#SBATCH --nodes=1\n#SBATCH --time=2:00:00\n", "")
	assert.Equal(Te, "#!/bin/bash\n#SBATCH --time=2:00:00\n#SBATCH --nodes=1\n", S.String())
}

func TestCustomMarker(Te *testing.T) {
	S := Parse("#!/bin/sh\n#PBS --walltime=1\n#SBATCH --time=1\n", "#PBS")
	assert.Equal(Te, []Directive{{Name: "walltime", Value: "1"}}, S.Directives())
	S.SetDirective("queue", "short")
	assert.Equal(Te, "#!/bin/sh\n#PBS --walltime=1\n#PBS --queue=short\n#SBATCH --time=1\n", S.String())
}

func TestSyncPaths(Te *testing.T) {
	S := New("")
	S.SyncPathDirectives("/scratch/run")
	assert.Equal(Te, "#!/bin/bash\n#SBATCH --output=/scratch/run/std.out\n#SBATCH --error=/scratch/run/std.err\n#SBATCH --chdir=/scratch/run\n", S.String())

	S.SyncPaths("/scratch/run", "/scratch/run/")
	v, _ := S.Directive("output")
	assert.Equal(Te, "std.out", v)
	v, _ = S.Directive("error")
	assert.Equal(Te, "std.err", v)

	S.SyncPaths("/scratch/run", "/scratch/out")
	v, _ = S.Directive("error")
	assert.Equal(Te, "/scratch/out/std.err", v)
	v, _ = S.Directive("chdir")
	assert.Equal(Te, "/scratch/run", v)
	assert.Len(Te, S.Directives(), 3)
}

func TestBody(Te *testing.T) {
	S := Parse(script, "")
	S.AddModule("load", "intel/2023")
	S.SetEnv("OMP_NUM_THREADS", "2")
	S.SetEnv("OMP_STACKSIZE", "512m")
	S.AddCommand("srun vasp_ncl")
	assert.Equal(Te, []string{"module load vasp/6.4", "module load intel/2023"}, S.Modules())
	assert.Equal(Te, map[string]string{"OMP_NUM_THREADS": "2", "OMP_STACKSIZE": "512m"}, S.Env())
	assert.Equal(Te, []string{"srun vasp_std", "srun vasp_ncl"}, S.Commands("srun"))
	assert.Equal(Te, []string{
		"module load vasp/6.4",
		"module load intel/2023",
		"export OMP_NUM_THREADS=2",
		"export OMP_STACKSIZE=512m",
		"# body comment",
		"srun vasp_std",
		"srun vasp_ncl",
	}, S.Body())

	assert.Equal(Te, 1, S.RemoveModules("intel"))
	assert.True(Te, S.UnsetEnv("OMP_STACKSIZE"))
	assert.False(Te, S.UnsetEnv("OMP_STACKSIZE"))

	E := New("")
	E.SetEnv("A", "1")
	E.AddModule("load", "vasp")
	assert.Equal(Te, "#!/bin/bash\nmodule load vasp\nexport A=1\n", E.String())
}

func TestSeed(Te *testing.T) {
	dir := Te.TempDir()
	p := filepath.Join(dir, FileName)

	S, err := Seed(p, Templates(), DefaultTemplate, "")
	require.NoError(Te, err)
	v, ok := S.Directive("job-name")
	assert.True(Te, ok)
	assert.Equal(Te, "vasp", v)
	assert.NotEmpty(Te, S.Commands("srun"))

	S, err = Seed(p, fstest.MapFS{}, "missing.job", "")
	require.NoError(Te, err)
	assert.Equal(Te, "#!/bin/bash\n", S.String())

	require.NoError(Te, os.WriteFile(p, []byte(script), 0644))
	S, err = Seed(p, Templates(), DefaultTemplate, "")
	require.NoError(Te, err)
	assert.Equal(Te, script, S.String())

	S.SetDirective("job-name", "scf")
	require.NoError(Te, S.Save(filepath.Join(dir, "out", FileName)))
	S2, err := Seed(filepath.Join(dir, "out", FileName), nil, "", "")
	require.NoError(Te, err)
	v, _ = S2.Directive("job-name")
	assert.Equal(Te, "scf", v)
}
