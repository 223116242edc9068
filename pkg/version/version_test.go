/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package version

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestVersion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Version Suite")
}

var _ = Describe("Version", func() {
	Context("when comparing semantic versions", func() {
		It("should compare basic semantic versions correctly", func() {
			Expect(CompareVersions("1.0.0", "1.0.1")).To(Equal(-1))
			Expect(CompareVersions("1.0.1", "1.0.0")).To(Equal(1))
			Expect(CompareVersions("1.0.0", "1.0.0")).To(Equal(0))
			Expect(CompareVersions("1.9.0", "1.10.0")).To(Equal(-1))
			Expect(CompareVersions("2.0.0", "1.99.99")).To(Equal(1))
		})

		It("should handle 'v' prefix and short versions", func() {
			Expect(CompareVersions("v1.0.0", "1.0.1")).To(Equal(-1))
			Expect(CompareVersions("1.0", "1.0.0")).To(Equal(0))
			Expect(CompareVersions("1", "1.0.1")).To(Equal(-1))
		})

		It("should handle empty versions", func() {
			Expect(CompareVersions("", "")).To(Equal(0))
			Expect(CompareVersions("", "1.0.0")).To(Equal(-1))
			Expect(CompareVersions("1.0.0", "")).To(Equal(1))
		})
	})

	Context("when parsing bump kinds", func() {
		It("should accept known kinds in any case", func() {
			Expect(ParseBumpKind("patch")).To(Equal(Patch))
			Expect(ParseBumpKind(" Minor ")).To(Equal(Minor))
			Expect(ParseBumpKind("MAJOR")).To(Equal(Major))
		})

		It("should reject unknown kinds", func() {
			_, err := ParseBumpKind("prerelease")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when bumping a version", func() {
		DescribeTable("should follow the component increment rule",
			func(current string, kind BumpKind, expected string) {
				next, err := Bump(current, kind)
				Expect(err).NotTo(HaveOccurred())
				Expect(next).To(Equal(expected))
				Expect(CompareVersions(next, current)).To(Equal(1))
			},
			Entry("patch", "1.2.3", Patch, "1.2.4"),
			Entry("minor", "1.2.3", Minor, "1.3.0"),
			Entry("major", "1.2.3", Major, "2.0.0"),
			Entry("patch from zero", "0.0.0", Patch, "0.0.1"),
			Entry("minor carries past nine", "0.9.9", Minor, "0.10.0"),
			Entry("major with v prefix", "v3.4.5", Major, "4.0.0"),
		)

		It("should reject malformed versions", func() {
			for _, v := range []string{"", "1.2", "1.2.3.4", "1.2.x", "1.2.3-beta.1"} {
				_, err := Bump(v, Patch)
				Expect(err).To(HaveOccurred(), v)
			}
		})

		It("should reject unknown kinds", func() {
			_, err := Bump("1.2.3", BumpKind("huge"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when checking a proposed version", func() {
		It("should accept a consistent bump", func() {
			Expect(CheckBump("1.2.3", "1.2.4", Patch)).To(Succeed())
			Expect(CheckBump("1.2.3", "1.3.0", Minor)).To(Succeed())
			Expect(CheckBump("1.2.3", "2.0.0", Major)).To(Succeed())
		})

		It("should reject a version that does not match the kind", func() {
			Expect(CheckBump("1.2.3", "1.3.0", Patch)).NotTo(Succeed())
			Expect(CheckBump("1.2.3", "1.3.1", Minor)).NotTo(Succeed())
			Expect(CheckBump("1.2.3", "2.1.0", Major)).NotTo(Succeed())
		})

		It("should reject versions that do not move forward", func() {
			Expect(CheckBump("1.2.3", "1.2.3", Patch)).NotTo(Succeed())
			Expect(CheckBump("1.2.3", "1.2.2", Patch)).NotTo(Succeed())
		})

		It("should reject a malformed proposal", func() {
			Expect(CheckBump("1.2.3", "1.2.4-rc.1", Patch)).NotTo(Succeed())
			Expect(CheckBump("1.2.3", "next", Patch)).NotTo(Succeed())
			Expect(CheckBump("1.2.3", "v1.2.4", Patch)).NotTo(Succeed())
			Expect(CheckBump("1.2.3", " 1.2.4", Patch)).NotTo(Succeed())
		})
	})
})
