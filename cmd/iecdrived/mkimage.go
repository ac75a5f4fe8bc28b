/*
 * iecdrive - "mkimage" subcommand.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikorb/iecdrive/internal/diskimage"
)

func newMkimageCommand() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "mkimage <path>",
		Short: "Create a fresh, formatted D64 or D81 disk image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind diskimage.Kind
			switch kindFlag {
			case "d64":
				kind = diskimage.KindD64
			case "d81":
				kind = diskimage.KindD81
			default:
				return fmt.Errorf("unknown image kind: %s (want d64 or d81)", kindFlag)
			}
			img, err := diskimage.Create(args[0], kind)
			if err != nil {
				return err
			}
			return img.Close()
		},
	}
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "d64", "image kind: d64 or d81")
	return cmd
}
